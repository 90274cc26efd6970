package keeper

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/KirkDiggler/lottery/internal/common/logging"
	"github.com/KirkDiggler/lottery/internal/models"
	"github.com/KirkDiggler/lottery/internal/services/lottery"
	lotteryMocks "github.com/KirkDiggler/lottery/internal/services/lottery/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type KeeperTestSuite struct {
	suite.Suite
	mockCtrl    *gomock.Controller
	mockLottery *lotteryMocks.MockService
	keeper      *Keeper
	ctx         context.Context
}

func (s *KeeperTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockLottery = lotteryMocks.NewMockService(s.mockCtrl)
	s.ctx = context.Background()

	keeper, err := New(&Config{
		Schedule: "@every 1s",
		Lottery:  s.mockLottery,
		Logger:   logging.Discard(),
	})
	s.Require().NoError(err)
	s.keeper = keeper
}

func (s *KeeperTestSuite) TearDownTest() {
	s.keeper.Stop()
	s.mockCtrl.Finish()
}

func TestKeeperSuite(t *testing.T) {
	suite.Run(t, new(KeeperTestSuite))
}

func (s *KeeperTestSuite) TestNewValidation() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{Schedule: "@every 1s"})
	s.ErrorIs(err, ErrNilLottery)

	_, err = New(&Config{Lottery: s.mockLottery})
	s.ErrorIs(err, ErrEmptySchedule)

	_, err = New(&Config{Schedule: "every now and then", Lottery: s.mockLottery})
	s.Error(err)

	_, err = New(&Config{Schedule: "*/5 * * * * *", Lottery: s.mockLottery})
	s.NoError(err)
}

func (s *KeeperTestSuite) TestTickNotNeeded() {
	s.mockLottery.EXPECT().CheckUpkeep(s.ctx, &lottery.CheckUpkeepInput{}).
		Return(&lottery.CheckUpkeepOutput{UpkeepNeeded: false}, nil)

	performed, err := s.keeper.Tick(s.ctx)
	s.NoError(err)
	s.False(performed)
}

func (s *KeeperTestSuite) TestTickPerforms() {
	s.mockLottery.EXPECT().CheckUpkeep(s.ctx, gomock.Any()).
		Return(&lottery.CheckUpkeepOutput{UpkeepNeeded: true, PerformData: []byte("data")}, nil)
	s.mockLottery.EXPECT().PerformUpkeep(s.ctx, &lottery.PerformUpkeepInput{PerformData: []byte("data")}).
		Return(&lottery.PerformUpkeepOutput{RequestID: "1"}, nil)

	performed, err := s.keeper.Tick(s.ctx)
	s.NoError(err)
	s.True(performed)
}

func (s *KeeperTestSuite) TestTickLostRace() {
	s.mockLottery.EXPECT().CheckUpkeep(s.ctx, gomock.Any()).
		Return(&lottery.CheckUpkeepOutput{UpkeepNeeded: true}, nil)
	s.mockLottery.EXPECT().PerformUpkeep(s.ctx, gomock.Any()).
		Return(nil, &lottery.UpkeepNotNeededError{
			Pool:         big.NewInt(2),
			EntrantCount: 2,
			State:        models.LotteryStateCalculating,
		})

	performed, err := s.keeper.Tick(s.ctx)
	s.NoError(err)
	s.False(performed)
}

func (s *KeeperTestSuite) TestTickPerformFailure() {
	requestErr := errors.New("subscription not funded")
	s.mockLottery.EXPECT().CheckUpkeep(s.ctx, gomock.Any()).
		Return(&lottery.CheckUpkeepOutput{UpkeepNeeded: true}, nil)
	s.mockLottery.EXPECT().PerformUpkeep(s.ctx, gomock.Any()).Return(nil, requestErr)

	performed, err := s.keeper.Tick(s.ctx)
	s.ErrorIs(err, requestErr)
	s.False(performed)
}

func (s *KeeperTestSuite) TestTickCheckFailure() {
	checkErr := errors.New("boom")
	s.mockLottery.EXPECT().CheckUpkeep(s.ctx, gomock.Any()).Return(nil, checkErr)

	_, err := s.keeper.Tick(s.ctx)
	s.ErrorIs(err, checkErr)
}

func (s *KeeperTestSuite) TestStartRunsOnSchedule() {
	checked := make(chan struct{}, 10)
	s.mockLottery.EXPECT().CheckUpkeep(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *lottery.CheckUpkeepInput) (*lottery.CheckUpkeepOutput, error) {
			checked <- struct{}{}
			return &lottery.CheckUpkeepOutput{}, nil
		}).MinTimes(1)

	s.Require().NoError(s.keeper.Start(s.ctx))
	s.ErrorIs(s.keeper.Start(s.ctx), ErrAlreadyStarted)

	select {
	case <-checked:
	case <-time.After(3 * time.Second):
		s.Fail("keeper never checked upkeep")
	}

	s.keeper.Stop()
	// a second stop is a no-op
	s.keeper.Stop()
}
