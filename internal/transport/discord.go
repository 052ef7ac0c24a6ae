package transport

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"

	"github.com/bwmarrin/discordgo"
)

const discordPageSize = 100

// discordSession is the part of *discordgo.Session the adapter uses
type discordSession interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendReply(channelID string, content string, reference *discordgo.MessageReference, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
}

// DiscordConfig holds configuration for the Discord adapter
type DiscordConfig struct {
	// Session is an authenticated discordgo session
	Session *discordgo.Session

	// ChannelID is the contest channel
	ChannelID string

	// MaxPages bounds how far back LatestMessage and SearchReplies page
	MaxPages int
}

// Discord posts to and reads from a single Discord channel
type Discord struct {
	session   discordSession
	channelID string
	maxPages  int
}

// NewDiscord creates a Discord adapter
func NewDiscord(cfg *DiscordConfig) (*Discord, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Session == nil {
		return nil, errors.New("discord session cannot be nil")
	}
	return newDiscord(cfg.Session, cfg.ChannelID, cfg.MaxPages)
}

func newDiscord(session discordSession, channelID string, maxPages int) (*Discord, error) {
	if channelID == "" {
		return nil, errors.New("channel ID cannot be empty")
	}
	if maxPages <= 0 {
		maxPages = 10
	}
	return &Discord{
		session:   session,
		channelID: channelID,
		maxPages:  maxPages,
	}, nil
}

// Post sends a message to the channel
func (d *Discord) Post(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", ErrEmptyText
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	msg, err := d.session.ChannelMessageSend(d.channelID, text, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	return msg.ID, nil
}

// PostWithImage sends a message with the image attached
func (d *Discord) PostWithImage(ctx context.Context, text, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := os.Open(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	name := filepath.Base(imagePath)
	msg, err := d.session.ChannelMessageSendComplex(d.channelID, &discordgo.MessageSend{
		Content: text,
		Files: []*discordgo.File{
			{
				Name:        name,
				ContentType: mime.TypeByExtension(filepath.Ext(name)),
				Reader:      f,
			},
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to send image message: %w", err)
	}
	return msg.ID, nil
}

// Reply sends text as a reply to parentID
func (d *Discord) Reply(ctx context.Context, parentID, text string) (string, error) {
	if text == "" {
		return "", ErrEmptyText
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	msg, err := d.session.ChannelMessageSendReply(d.channelID, text, &discordgo.MessageReference{
		MessageID: parentID,
		ChannelID: d.channelID,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to send reply: %w", err)
	}
	return msg.ID, nil
}

// SearchReplies pages forward from parentID and collects messages that reference it.
// A channel with more than MaxPages pages after parentID fails with ErrScanLimit
// rather than returning a partial set.
func (d *Discord) SearchReplies(ctx context.Context, parentID string) ([]Message, error) {
	var replies []Message
	after := parentID

	for page := 0; ; page++ {
		if page == d.maxPages {
			more, err := d.session.ChannelMessages(d.channelID, 1, "", after, "", discordgo.WithContext(ctx))
			if err != nil {
				return nil, fmt.Errorf("failed to list messages: %w", err)
			}
			if len(more) == 0 {
				break
			}
			return nil, fmt.Errorf("%w: more than %d messages after %s", ErrScanLimit, d.maxPages*discordPageSize, parentID)
		}

		batch, err := d.session.ChannelMessages(d.channelID, discordPageSize, "", after, "", discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}

		for _, m := range batch {
			if snowflakeLess(after, m.ID) {
				after = m.ID
			}
			if m.MessageReference == nil || m.MessageReference.MessageID != parentID {
				continue
			}
			replies = append(replies, fromDiscord(m))
		}

		if len(batch) < discordPageSize {
			break
		}
	}

	sort.SliceStable(replies, func(i, j int) bool {
		return snowflakeLess(replies[i].ID, replies[j].ID)
	})
	return replies, nil
}

// LatestMessage pages back from the newest message until one by authorID is found
func (d *Discord) LatestMessage(ctx context.Context, authorID string) (*Message, error) {
	before := ""
	for page := 0; page < d.maxPages; page++ {
		batch, err := d.session.ChannelMessages(d.channelID, discordPageSize, before, "", "", discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}

		var newest *discordgo.Message
		for _, m := range batch {
			if before == "" || snowflakeLess(m.ID, before) {
				before = m.ID
			}
			if m.Author == nil || m.Author.ID != authorID {
				continue
			}
			if newest == nil || snowflakeLess(newest.ID, m.ID) {
				newest = m
			}
		}
		if newest != nil {
			msg := fromDiscord(newest)
			return &msg, nil
		}

		if len(batch) < discordPageSize {
			break
		}
	}
	return nil, ErrMessageNotFound
}

func fromDiscord(m *discordgo.Message) Message {
	msg := Message{
		ID:        m.ID,
		Text:      m.Content,
		Timestamp: m.Timestamp,
	}
	if m.Author != nil {
		msg.Author = Author{ID: m.Author.ID, Name: m.Author.Username}
		if m.Author.GlobalName != "" {
			msg.Author.Name = m.Author.GlobalName
		}
	}
	if m.MessageReference != nil {
		msg.ReplyTo = m.MessageReference.MessageID
	}
	if len(m.Attachments) > 0 {
		msg.ImagePath = m.Attachments[0].URL
	}
	return msg
}

// snowflakeLess compares Discord IDs, which are decimal integers of varying length
func snowflakeLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
