package discord

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/KirkDiggler/lottery/internal/common/ether"
	"github.com/KirkDiggler/lottery/internal/common/logging"
	"github.com/KirkDiggler/lottery/internal/models"
	"github.com/KirkDiggler/lottery/internal/repositories/player"
	playerMocks "github.com/KirkDiggler/lottery/internal/repositories/player/mocks"
	"github.com/KirkDiggler/lottery/internal/services/events"
	"github.com/KirkDiggler/lottery/internal/services/messaging"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type fakeSender struct {
	mu     sync.Mutex
	sent   []*discordgo.MessageEmbed
	target []string
}

func (f *fakeSender) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, embed)
	f.target = append(f.target, channelID)
	return &discordgo.Message{}, nil
}

type AnnouncerTestSuite struct {
	suite.Suite
	mockCtrl       *gomock.Controller
	mockPlayerRepo *playerMocks.MockRepository
	bus            *events.Bus
	sender         *fakeSender
	announcer      *Announcer
	ctx            context.Context
}

func (s *AnnouncerTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockPlayerRepo = playerMocks.NewMockRepository(s.mockCtrl)
	s.bus = events.New(&events.Config{Logger: logging.Discard()})
	s.sender = &fakeSender{}
	s.ctx = context.Background()

	messagingService, err := messaging.NewService(&messaging.ServiceConfig{Seed: 7})
	s.Require().NoError(err)

	s.mockPlayerRepo.EXPECT().GetPlayer(gomock.Any(), &player.GetPlayerInput{PlayerID: "user-1"}).
		Return(&models.Player{ID: "user-1", Name: "alice"}, nil).AnyTimes()
	s.mockPlayerRepo.EXPECT().GetPlayer(gomock.Any(), &player.GetPlayerInput{PlayerID: "0xabc"}).
		Return(nil, player.ErrPlayerNotFound).AnyTimes()

	s.announcer, err = NewAnnouncer(&AnnouncerConfig{
		ChannelID:  "channel-1",
		Sender:     s.sender,
		Publisher:  s.bus,
		Messaging:  messagingService,
		PlayerRepo: s.mockPlayerRepo,
		Logger:     logging.Discard(),
	})
	s.Require().NoError(err)
	s.Require().NoError(s.announcer.Start())
}

func (s *AnnouncerTestSuite) TearDownTest() {
	s.bus.Close()
	s.mockCtrl.Finish()
}

func TestAnnouncerSuite(t *testing.T) {
	suite.Run(t, new(AnnouncerTestSuite))
}

func (s *AnnouncerTestSuite) publish(event *models.Event) {
	s.Require().NoError(s.bus.Publish(s.ctx, event))
}

func (s *AnnouncerTestSuite) TestAnnouncesRound() {
	s.publish(&models.Event{
		Type:         models.EventTypeEntered,
		Participant:  "user-1",
		EntrantCount: 2,
		Pool:         ether.MustParse("2"),
		Round:        1,
	})
	s.publish(&models.Event{
		Type:         models.EventTypeWinnerRequested,
		RequestID:    "1",
		EntrantCount: 2,
		Pool:         ether.MustParse("2"),
		Round:        1,
	})
	s.publish(&models.Event{
		Type:   models.EventTypeWinnerPicked,
		Winner: "0xabc",
		Prize:  ether.MustParse("2"),
		Round:  1,
	})
	s.bus.Wait()

	s.sender.mu.Lock()
	defer s.sender.mu.Unlock()

	s.Require().Len(s.sender.sent, 3)
	s.Equal([]string{"channel-1", "channel-1", "channel-1"}, s.sender.target)

	s.Contains(s.sender.sent[0].Description, "alice")
	s.Contains(s.sender.sent[0].Description, "2 ETH")
	s.Equal("Drawing a Winner", s.sender.sent[1].Title)
	s.Contains(s.sender.sent[2].Description, "0xabc")
	s.Equal(colorWinner, s.sender.sent[2].Color)
}

func (s *AnnouncerTestSuite) TestNewAnnouncerValidation() {
	_, err := NewAnnouncer(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = NewAnnouncer(&AnnouncerConfig{Sender: s.sender})
	s.ErrorIs(err, ErrEmptyChannelID)

	_, err = NewAnnouncer(&AnnouncerConfig{ChannelID: "channel-1"})
	s.ErrorIs(err, ErrNilSender)

	_, err = NewAnnouncer(&AnnouncerConfig{ChannelID: "channel-1", Sender: s.sender})
	s.ErrorIs(err, ErrNilPublisher)

	_, err = NewAnnouncer(&AnnouncerConfig{ChannelID: "channel-1", Sender: s.sender, Publisher: s.bus})
	s.ErrorIs(err, ErrNilMessaging)
}

func (s *AnnouncerTestSuite) TestUnknownEventTypeIsIgnored() {
	embed, err := s.announcer.render(s.ctx, &models.Event{Type: "lottery.other", Pool: big.NewInt(1)})
	s.NoError(err)
	s.Nil(embed)
}
