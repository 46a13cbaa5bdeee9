package chat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chatrelay/internal/app/message"
	"chatrelay/internal/app/presence"
	"chatrelay/internal/pkg/errs"
)

// recordedPublish captures one Publish call for assertions.
type recordedPublish struct {
	Audience Audience
	SenderID string
	Room     string
	Event    string
	Payload  any
}

// fakeBroadcaster records subscriptions and publishes instead of delivering them.
type fakeBroadcaster struct {
	subscriptions map[string]string
	publishes     []recordedPublish
}

func newFakeBroadcaster() *fakeBroadcaster {
	return &fakeBroadcaster{subscriptions: make(map[string]string)}
}

func (f *fakeBroadcaster) Subscribe(connectionID, room string) {
	f.subscriptions[connectionID] = room
}

func (f *fakeBroadcaster) Publish(audience Audience, senderID, room, event string, payload any) {
	f.publishes = append(f.publishes, recordedPublish{
		Audience: audience,
		SenderID: senderID,
		Room:     room,
		Event:    event,
		Payload:  payload,
	})
}

func (f *fakeBroadcaster) reset() {
	f.publishes = nil
}

// fakeFilter flags exactly the texts placed in profane.
type fakeFilter struct {
	profane map[string]bool
}

func (f *fakeFilter) IsProfane(text string) bool {
	return f.profane[text]
}

func newTestCoordinator() (*Coordinator, *fakeBroadcaster, *fakeFilter) {
	broadcaster := newFakeBroadcaster()
	filter := &fakeFilter{profane: make(map[string]bool)}
	coordinator := NewCoordinator(presence.NewRegistry(), filter, broadcaster)
	return coordinator, broadcaster, filter
}

func TestCoordinator_Join_EmitsWelcomeAnnouncementAndSnapshot(t *testing.T) {
	req := require.New(t)
	coordinator, broadcaster, _ := newTestCoordinator()

	err := coordinator.Join("conn-1", "Bob", "Lobby")
	req.Nil(err)

	req.Equal("lobby", broadcaster.subscriptions["conn-1"])
	req.Len(broadcaster.publishes, 3)

	welcome := broadcaster.publishes[0]
	req.Equal(AudienceSelf, welcome.Audience)
	req.Equal("conn-1", welcome.SenderID)
	req.Equal(EventMessage, welcome.Event)
	welcomeMsg := welcome.Payload.(message.Message)
	req.Equal(message.AdminUsername, welcomeMsg.Username)
	req.Equal("Welcome!", welcomeMsg.Text)
	req.Positive(welcomeMsg.CreatedAt)

	announcement := broadcaster.publishes[1]
	req.Equal(AudienceRoomExcludingSelf, announcement.Audience)
	req.Equal(EventMessage, announcement.Event)
	req.Equal("bob has joined!", announcement.Payload.(message.Message).Text)

	roomData := broadcaster.publishes[2]
	req.Equal(AudienceRoom, roomData.Audience)
	req.Equal(EventRoomData, roomData.Event)
	snapshot := roomData.Payload.(message.RoomData)
	req.Equal("lobby", snapshot.Room)
	req.Equal([]message.RoomUser{{Username: "bob"}}, snapshot.Users)
}

func TestCoordinator_Join_FailureEmitsNothing(t *testing.T) {
	req := require.New(t)
	coordinator, broadcaster, _ := newTestCoordinator()

	req.Nil(coordinator.Join("conn-1", "Alice", "Den"))
	broadcaster.reset()

	err := coordinator.Join("conn-2", "alice", " den ")
	req.NotNil(err)
	req.Equal(errs.ErrUsernameInUse, err.Code)
	req.Empty(broadcaster.publishes)
	req.Empty(broadcaster.subscriptions["conn-2"])
}

func TestCoordinator_SendMessage_BroadcastsToWholeRoom(t *testing.T) {
	req := require.New(t)
	coordinator, broadcaster, _ := newTestCoordinator()

	req.Nil(coordinator.Join("conn-1", "Bob", "Lobby"))
	broadcaster.reset()

	req.Nil(coordinator.SendMessage("conn-1", "hello"))

	req.Len(broadcaster.publishes, 1)
	publish := broadcaster.publishes[0]
	req.Equal(AudienceRoom, publish.Audience)
	req.Equal("lobby", publish.Room)
	req.Equal(EventMessage, publish.Event)

	msg := publish.Payload.(message.Message)
	req.Equal("bob", msg.Username)
	req.Equal("hello", msg.Text)
}

func TestCoordinator_SendMessage_ProfanityRejectedWithoutBroadcast(t *testing.T) {
	req := require.New(t)
	coordinator, broadcaster, filter := newTestCoordinator()

	req.Nil(coordinator.Join("conn-1", "Carl", "Lobby"))
	broadcaster.reset()

	filter.profane["some profane text"] = true

	err := coordinator.SendMessage("conn-1", "some profane text")
	req.NotNil(err)
	req.Equal(errs.ErrProfanity, err.Code)
	req.Equal("Profanity is not allowed!", err.Message)
	req.Empty(broadcaster.publishes)
}

func TestCoordinator_SendMessage_NotJoined(t *testing.T) {
	req := require.New(t)
	coordinator, broadcaster, _ := newTestCoordinator()

	err := coordinator.SendMessage("conn-ghost", "hello")
	req.NotNil(err)
	req.Equal(errs.ErrNotJoined, err.Code)
	req.Empty(broadcaster.publishes)
}

func TestCoordinator_SendLocation_BroadcastsMapLink(t *testing.T) {
	req := require.New(t)
	coordinator, broadcaster, _ := newTestCoordinator()

	req.Nil(coordinator.Join("conn-1", "Bob", "Lobby"))
	broadcaster.reset()

	req.Nil(coordinator.SendLocation("conn-1", 12.34, -56.78))

	req.Len(broadcaster.publishes, 1)
	publish := broadcaster.publishes[0]
	req.Equal(AudienceRoom, publish.Audience)
	req.Equal(EventLocationMessage, publish.Event)

	loc := publish.Payload.(message.LocationMessage)
	req.Equal("bob", loc.Username)
	req.Equal("https://google.com/maps?q=12.34,-56.78", loc.URL)
}

func TestCoordinator_SendLocation_NotJoined(t *testing.T) {
	req := require.New(t)
	coordinator, broadcaster, _ := newTestCoordinator()

	err := coordinator.SendLocation("conn-ghost", 1, 2)
	req.NotNil(err)
	req.Equal(errs.ErrNotJoined, err.Code)
	req.Empty(broadcaster.publishes)
}

func TestCoordinator_Disconnect_AnnouncesLeaveAndSnapshot(t *testing.T) {
	req := require.New(t)
	coordinator, broadcaster, _ := newTestCoordinator()

	req.Nil(coordinator.Join("conn-a", "a", "x"))
	req.Nil(coordinator.Join("conn-b", "b", "x"))
	broadcaster.reset()

	coordinator.Disconnect("conn-a")

	req.Len(broadcaster.publishes, 2)

	leave := broadcaster.publishes[0]
	req.Equal(AudienceRoom, leave.Audience)
	req.Equal("x", leave.Room)
	req.Equal(EventMessage, leave.Event)
	req.Equal("a has left!", leave.Payload.(message.Message).Text)

	roomData := broadcaster.publishes[1]
	req.Equal(AudienceRoom, roomData.Audience)
	req.Equal(EventRoomData, roomData.Event)
	snapshot := roomData.Payload.(message.RoomData)
	req.Equal([]message.RoomUser{{Username: "b"}}, snapshot.Users)
}

func TestCoordinator_Disconnect_UnknownConnectionIsSilent(t *testing.T) {
	req := require.New(t)
	coordinator, broadcaster, _ := newTestCoordinator()

	coordinator.Disconnect("conn-never-joined")
	req.Empty(broadcaster.publishes)

	// Re-reported disconnects after a real one are equally silent.
	req.Nil(coordinator.Join("conn-1", "alice", "den"))
	coordinator.Disconnect("conn-1")
	broadcaster.reset()
	coordinator.Disconnect("conn-1")
	req.Empty(broadcaster.publishes)
}

func TestCoordinator_RoomSnapshot_NormalizesRoomName(t *testing.T) {
	req := require.New(t)
	coordinator, _, _ := newTestCoordinator()

	req.Nil(coordinator.Join("conn-1", "alice", "Den"))

	snapshot := coordinator.RoomSnapshot(" DEN ")
	req.Equal("den", snapshot.Room)
	req.Equal([]message.RoomUser{{Username: "alice"}}, snapshot.Users)
}
