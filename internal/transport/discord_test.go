package transport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/suite"
)

// fakeSession records sends and serves ChannelMessages from an in-memory list, newest first
type fakeSession struct {
	next     int
	messages []*discordgo.Message
	files    []string
}

func (f *fakeSession) add(m *discordgo.Message) *discordgo.Message {
	f.next++
	m.ID = strconv.Itoa(1000 + f.next)
	m.Timestamp = time.Unix(int64(f.next), 0)
	f.messages = append(f.messages, m)
	return m
}

func (f *fakeSession) ChannelMessageSend(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	return f.add(&discordgo.Message{ChannelID: channelID, Content: content, Author: &discordgo.User{ID: "bot"}}), nil
}

func (f *fakeSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	for _, file := range data.Files {
		f.files = append(f.files, file.Name)
	}
	return f.add(&discordgo.Message{ChannelID: channelID, Content: data.Content, Author: &discordgo.User{ID: "bot"}}), nil
}

func (f *fakeSession) ChannelMessageSendReply(channelID, content string, ref *discordgo.MessageReference, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	return f.add(&discordgo.Message{ChannelID: channelID, Content: content, MessageReference: ref, Author: &discordgo.User{ID: "bot"}}), nil
}

// ChannelMessages follows Discord's paging: with afterID the page holds the oldest
// messages after it, otherwise the newest; either way the page is returned newest first
func (f *fakeSession) ChannelMessages(_ string, limit int, beforeID, afterID, _ string, _ ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	var matched []*discordgo.Message
	for _, m := range f.messages {
		if beforeID != "" && !snowflakeLess(m.ID, beforeID) {
			continue
		}
		if afterID != "" && !snowflakeLess(afterID, m.ID) {
			continue
		}
		matched = append(matched, m)
	}
	if len(matched) > limit {
		if afterID != "" {
			matched = matched[:limit]
		} else {
			matched = matched[len(matched)-limit:]
		}
	}

	out := make([]*discordgo.Message, 0, len(matched))
	for i := len(matched) - 1; i >= 0; i-- {
		out = append(out, matched[i])
	}
	return out, nil
}

type DiscordTestSuite struct {
	suite.Suite
	ctx     context.Context
	session *fakeSession
	adapter *Discord
}

func (s *DiscordTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.session = &fakeSession{}
	adapter, err := newDiscord(s.session, "chan", 3)
	s.Require().NoError(err)
	s.adapter = adapter
}

func TestDiscordTestSuite(t *testing.T) {
	suite.Run(t, new(DiscordTestSuite))
}

func (s *DiscordTestSuite) TestSearchRepliesFiltersByReference() {
	parent, err := s.adapter.Post(s.ctx, "announcement")
	s.Require().NoError(err)

	for i := 0; i < 5; i++ {
		s.session.add(&discordgo.Message{
			Content:          fmt.Sprintf("reply %d", i),
			Author:           &discordgo.User{ID: "user" + strconv.Itoa(i), Username: "u", GlobalName: "User"},
			MessageReference: &discordgo.MessageReference{MessageID: parent},
		})
		s.session.add(&discordgo.Message{Content: "noise", Author: &discordgo.User{ID: "x"}})
	}

	replies, err := s.adapter.SearchReplies(s.ctx, parent)
	s.Require().NoError(err)
	s.Require().Len(replies, 5)
	s.Equal("reply 0", replies[0].Text)
	s.Equal("reply 4", replies[4].Text)
	s.Equal("User", replies[0].Author.Name)
	s.Equal(parent, replies[0].ReplyTo)
}

func (s *DiscordTestSuite) noise(n int) {
	for i := 0; i < n; i++ {
		s.session.add(&discordgo.Message{Content: "chatter", Author: &discordgo.User{ID: "x"}})
	}
}

func (s *DiscordTestSuite) reply(parent, text string) {
	s.session.add(&discordgo.Message{
		Content:          text,
		Author:           &discordgo.User{ID: "miner", Username: "miner"},
		MessageReference: &discordgo.MessageReference{MessageID: parent},
	})
}

func (s *DiscordTestSuite) TestSearchRepliesSpansPages() {
	parent, err := s.adapter.Post(s.ctx, "announcement")
	s.Require().NoError(err)

	s.noise(250)
	s.reply(parent, "early")
	s.noise(30)
	s.reply(parent, "late")

	replies, err := s.adapter.SearchReplies(s.ctx, parent)
	s.Require().NoError(err)
	s.Require().Len(replies, 2)
	s.Equal("early", replies[0].Text)
	s.Equal("late", replies[1].Text)
}

func (s *DiscordTestSuite) TestSearchRepliesFailsPastPageLimit() {
	parent, err := s.adapter.Post(s.ctx, "announcement")
	s.Require().NoError(err)

	s.noise(3 * discordPageSize)
	s.reply(parent, "buried")

	_, err = s.adapter.SearchReplies(s.ctx, parent)
	s.ErrorIs(err, ErrScanLimit)
}

func (s *DiscordTestSuite) TestSearchRepliesExactlyAtPageLimit() {
	parent, err := s.adapter.Post(s.ctx, "announcement")
	s.Require().NoError(err)

	s.noise(2 * discordPageSize)
	s.reply(parent, "last")
	s.noise(discordPageSize - 1)

	replies, err := s.adapter.SearchReplies(s.ctx, parent)
	s.Require().NoError(err)
	s.Require().Len(replies, 1)
	s.Equal("last", replies[0].Text)
}

func (s *DiscordTestSuite) TestLatestMessageByAuthor() {
	s.session.add(&discordgo.Message{Content: "old", Author: &discordgo.User{ID: "validator"}})
	s.session.add(&discordgo.Message{Content: "new", Author: &discordgo.User{ID: "validator"}})
	s.session.add(&discordgo.Message{Content: "chatter", Author: &discordgo.User{ID: "other"}})

	msg, err := s.adapter.LatestMessage(s.ctx, "validator")
	s.Require().NoError(err)
	s.Equal("new", msg.Text)

	_, err = s.adapter.LatestMessage(s.ctx, "ghost")
	s.ErrorIs(err, ErrMessageNotFound)
}

func (s *DiscordTestSuite) TestPostWithImageAttachesFile() {
	path := filepath.Join(s.T().TempDir(), "frame.png")
	s.Require().NoError(os.WriteFile(path, []byte("png"), 0o600))

	_, err := s.adapter.PostWithImage(s.ctx, "reveals open", path)
	s.Require().NoError(err)
	s.Equal([]string{"frame.png"}, s.session.files)

	_, err = s.adapter.PostWithImage(s.ctx, "reveals open", filepath.Join(s.T().TempDir(), "nope.png"))
	s.Error(err)
}

func (s *DiscordTestSuite) TestCancelledContextSendsNothing() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.adapter.Post(ctx, "hello")
	s.ErrorIs(err, context.Canceled)
	s.Empty(s.session.messages)
}

func (s *DiscordTestSuite) TestSnowflakeOrdering() {
	s.True(snowflakeLess("999", "1000"))
	s.False(snowflakeLess("1000", "999"))
	s.True(snowflakeLess("1001", "1002"))
}
