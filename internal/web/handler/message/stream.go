package message

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog/log"

	"github.com/fitcircle/fitcircle/internal/auth"
	"github.com/fitcircle/fitcircle/internal/db/controller/message"
	"github.com/fitcircle/fitcircle/internal/db/models"
	"github.com/fitcircle/fitcircle/internal/realtime"
)

const writeWait = 10 * time.Second

// Stream forwards the events of the group to the websocket. With ?since=<id> stored
// messages after id are replayed first. Incoming frames are ignored; the stream
// ends when the client disconnects, falls behind or loses read access to the group.
func (s *Service) Stream(conn *websocket.Conn) {
	groupID := conn.Params("groupID")
	userID, _ := conn.Locals(auth.LocalsUserID).(string)

	since, err := message.ParseID(conn.Query("since"))
	if err != nil {
		s.closeWith(conn, websocket.CloseUnsupportedData, err.Error())
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		defer cancel()

		for {
			if _, _, errRead := conn.ReadMessage(); errRead != nil {
				return
			}
		}
	}()

	logger := log.With().Str("group_id", groupID).Str("user_id", userID).Logger()
	logger.Debug().Uint64("since", since).Msg("stream opened")

	err = realtime.Stream(ctx, s.env.Hub, realtime.StreamOptions{
		GroupID:     groupID,
		Since:       since,
		ReplayLimit: s.env.Cfg.Realtime.ReplayLimit,
		UserID:      userID,
		Authorize: func() error {
			_, errAccess := s.env.Auth.WithContext(ctx).GroupAccess(groupID, userID)
			return errAccess
		},
		Fetch: func(since uint64, limit int) ([]models.GroupMessage, error) {
			return message.List(s.env.DB.WithContext(ctx), groupID, message.Cursor{Since: since, Limit: limit})
		},
		Send: func(e realtime.Event) error {
			if errDeadline := conn.SetWriteDeadline(time.Now().Add(writeWait)); errDeadline != nil {
				return errDeadline //nolint:wrapcheck
			}

			return conn.WriteJSON(e) //nolint:wrapcheck
		},
	})

	switch {
	case errors.Is(err, realtime.ErrSlowSubscriber):
		logger.Warn().Msg("stream dropped, subscriber fell behind")
		s.closeWith(conn, websocket.CloseTryAgainLater, err.Error())
	case errors.Is(err, realtime.ErrAccessRevoked):
		logger.Info().Err(err).Msg("stream closed, group access revoked")
		s.closeWith(conn, websocket.ClosePolicyViolation, "group access revoked")
	case err != nil:
		logger.Debug().Err(err).Msg("stream closed")
	default:
		logger.Debug().Msg("stream closed")
	}
}

func (s *Service) closeWith(conn *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
