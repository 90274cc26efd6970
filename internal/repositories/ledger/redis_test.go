package ledger

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	clockMocks "github.com/KirkDiggler/lottery/internal/common/clock/mocks"
	uuidMocks "github.com/KirkDiggler/lottery/internal/common/uuid/mocks"
	"github.com/KirkDiggler/lottery/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr        *miniredis.Miniredis
	client    *redis.Client
	mockCtrl  *gomock.Controller
	mockClock *clockMocks.MockClock
	mockUUID  *uuidMocks.MockUUID
	repo      Repository
	ctx       context.Context

	testNow time.Time
	ticks   int
	ids     int
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	s.mockCtrl = gomock.NewController(s.T())
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)
	s.ctx = context.Background()
	s.testNow = time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC)
	s.ticks = 0
	s.ids = 0

	// every movement happens one second after the previous one
	s.mockClock.EXPECT().Now().DoAndReturn(func() time.Time {
		s.ticks++
		return s.testNow.Add(time.Duration(s.ticks) * time.Second)
	}).AnyTimes()
	s.mockUUID.EXPECT().NewUUID().DoAndReturn(func() string {
		s.ids++
		return fmt.Sprintf("entry-%d", s.ids)
	}).AnyTimes()

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
		Clock:       s.mockClock,
		UUID:        s.mockUUID,
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
	s.mockCtrl.Finish()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) balance(accountID string) string {
	balance, err := s.repo.GetBalance(s.ctx, &GetBalanceInput{AccountID: accountID})
	s.Require().NoError(err)
	return balance.String()
}

func (s *RedisRepositoryTestSuite) TestNewRedisValidation() {
	_, err := NewRedis(nil)
	s.Error(err)

	_, err = NewRedis(&Config{})
	s.Error(err)
}

func (s *RedisRepositoryTestSuite) TestUnknownAccountHasZeroBalance() {
	s.Equal("0", s.balance("nobody"))
}

func (s *RedisRepositoryTestSuite) TestCreditAndDebit() {
	entry, err := s.repo.Credit(s.ctx, &CreditInput{
		AccountID: "alice",
		Amount:    big.NewInt(5000),
		Reference: "faucet",
	})
	s.Require().NoError(err)
	s.Equal("entry-1", entry.ID)
	s.Equal(models.LedgerEntryCredit, entry.Kind)
	s.Equal("faucet", entry.Reference)

	_, err = s.repo.Debit(s.ctx, &DebitInput{
		AccountID: "alice",
		Amount:    big.NewInt(1500),
		Reference: "entry",
	})
	s.Require().NoError(err)

	s.Equal("3500", s.balance("alice"))
}

func (s *RedisRepositoryTestSuite) TestBalancesBeyondInt64() {
	huge, _ := new(big.Int).SetString("100000000000000000000000", 10)

	_, err := s.repo.Credit(s.ctx, &CreditInput{AccountID: "whale", Amount: huge})
	s.Require().NoError(err)
	_, err = s.repo.Credit(s.ctx, &CreditInput{AccountID: "whale", Amount: huge})
	s.Require().NoError(err)

	s.Equal("200000000000000000000000", s.balance("whale"))
}

func (s *RedisRepositoryTestSuite) TestDebitInsufficientFunds() {
	_, err := s.repo.Credit(s.ctx, &CreditInput{AccountID: "alice", Amount: big.NewInt(100)})
	s.Require().NoError(err)

	_, err = s.repo.Debit(s.ctx, &DebitInput{AccountID: "alice", Amount: big.NewInt(101)})
	s.ErrorIs(err, ErrInsufficientFunds)

	s.Equal("100", s.balance("alice"))
}

func (s *RedisRepositoryTestSuite) TestInvalidAmounts() {
	_, err := s.repo.Credit(s.ctx, &CreditInput{AccountID: "alice", Amount: big.NewInt(0)})
	s.ErrorIs(err, ErrInvalidAmount)

	_, err = s.repo.Credit(s.ctx, &CreditInput{AccountID: "alice", Amount: big.NewInt(-5)})
	s.ErrorIs(err, ErrInvalidAmount)

	_, err = s.repo.Debit(s.ctx, &DebitInput{AccountID: "alice"})
	s.ErrorIs(err, ErrInvalidAmount)
}

func (s *RedisRepositoryTestSuite) TestFrozenAccount() {
	_, err := s.repo.Credit(s.ctx, &CreditInput{AccountID: "bob", Amount: big.NewInt(100)})
	s.Require().NoError(err)

	s.Require().NoError(s.repo.FreezeAccount(s.ctx, &FreezeAccountInput{AccountID: "bob"}))

	_, err = s.repo.Credit(s.ctx, &CreditInput{AccountID: "bob", Amount: big.NewInt(1)})
	s.ErrorIs(err, ErrAccountFrozen)

	_, err = s.repo.Debit(s.ctx, &DebitInput{AccountID: "bob", Amount: big.NewInt(1)})
	s.ErrorIs(err, ErrAccountFrozen)

	s.Require().NoError(s.repo.UnfreezeAccount(s.ctx, &UnfreezeAccountInput{AccountID: "bob"}))

	_, err = s.repo.Credit(s.ctx, &CreditInput{AccountID: "bob", Amount: big.NewInt(1)})
	s.Require().NoError(err)
	s.Equal("101", s.balance("bob"))
}

func (s *RedisRepositoryTestSuite) TestListEntriesNewestFirst() {
	_, err := s.repo.Credit(s.ctx, &CreditInput{AccountID: "alice", Amount: big.NewInt(10), Reference: "first"})
	s.Require().NoError(err)
	_, err = s.repo.Debit(s.ctx, &DebitInput{AccountID: "alice", Amount: big.NewInt(3), Reference: "second"})
	s.Require().NoError(err)
	_, err = s.repo.Credit(s.ctx, &CreditInput{AccountID: "alice", Amount: big.NewInt(1), Reference: "third"})
	s.Require().NoError(err)

	out, err := s.repo.ListEntries(s.ctx, &ListEntriesInput{AccountID: "alice"})
	s.Require().NoError(err)
	s.Require().Len(out.Entries, 3)
	s.Equal("third", out.Entries[0].Reference)
	s.Equal(models.LedgerEntryDebit, out.Entries[1].Kind)
	s.Equal("3", out.Entries[1].Amount.String())
	s.Equal("first", out.Entries[2].Reference)

	limited, err := s.repo.ListEntries(s.ctx, &ListEntriesInput{AccountID: "alice", Limit: 1})
	s.Require().NoError(err)
	s.Require().Len(limited.Entries, 1)
	s.Equal("third", limited.Entries[0].Reference)
}

func (s *RedisRepositoryTestSuite) TestConcurrentCredits() {
	repo, err := NewRedis(&Config{RedisClient: s.client})
	s.Require().NoError(err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Credit(s.ctx, &CreditInput{AccountID: "pool", Amount: big.NewInt(1)})
			s.NoError(err)
		}()
	}
	wg.Wait()

	s.Equal("20", s.balance("pool"))
}
