package notifier

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"derisk/app/models"
	"derisk/pkg/log"
	"derisk/pkg/uuid"
)

const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// time allowed to read the next pong message from the peer
	pongWait = 30 * time.Second

	// send pings to peer with this period, must be less than pongWait
	pingPeriod = (pongWait * 8) / 10

	// outbound messages buffered per stream so a brief stall does not drop
	sendBuffer = 8
)

var (
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
)

type unsubscribeHandler func(*alertStream)

// alertStream is one websocket connection listening for a wallet's alerts.
type alertStream struct {
	id            string
	walletID      string
	conn          *websocket.Conn
	send          chan interface{}
	onUnsubscribe unsubscribeHandler
}

func (s *alertStream) read() {
	defer func() {
		if s.onUnsubscribe != nil {
			s.onUnsubscribe(s)
		}
		_ = s.conn.Close()
	}()

	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, _, err := s.conn.ReadMessage()
		if err != nil { // failed to read pong or other message
			break
		}
	}
}

func (s *alertStream) write() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case message, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok { // the channel was closed by notifier
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteJSON(message); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				return
			}
		}
	}
}

type alertStreams map[string]*alertStream

// Manager fans liquidation alerts out to websocket subscribers. A wallet may
// have several open streams, each gets every alert for that wallet.
type Manager struct {
	wallets       map[string]alertStreams
	notifications chan *models.Notification
	register      chan *alertStream
	unregister    chan *alertStream
}

func NewManager() *Manager {
	return &Manager{
		wallets:       make(map[string]alertStreams),
		notifications: make(chan *models.Notification),
		register:      make(chan *alertStream),
		unregister:    make(chan *alertStream),
	}
}

func (m *Manager) Subscribe(ctx context.Context, subscriber *models.NewSubscriber) error {
	subscriber.ClientID = strings.ToLower(subscriber.ClientID)
	log.AddFields(ctx, "subscriber", subscriber.ClientID)

	conn, err := upgrader.Upgrade(subscriber.ResponseWriter, subscriber.Request, nil)
	if err != nil {
		return errors.Wrap(err, "failed to upgrade a connection")
	}

	m.register <- &alertStream{
		id:       uuid.NewUUID(),
		walletID: subscriber.ClientID,
		conn:     conn,
		send:     make(chan interface{}, sendBuffer),
		onUnsubscribe: func(s *alertStream) {
			m.unregister <- s
		},
	}
	return nil
}

func (m *Manager) Notify(ctx context.Context, notification *models.Notification) {
	notification.ClientID = strings.ToLower(notification.ClientID)
	log.Infow("notify by ws", "notification", notification)
	m.notifications <- notification
}

func (m *Manager) Start() {
	log.Info("starting notifier service")
	for {
		select {
		case stream := <-m.register:
			streams, ok := m.wallets[stream.walletID]
			if !ok {
				streams = make(alertStreams)
				m.wallets[stream.walletID] = streams
			}
			streams[stream.id] = stream
			go stream.read()
			go stream.write()
		case stream := <-m.unregister:
			if streams, ok := m.wallets[stream.walletID]; ok {
				if _, ok := streams[stream.id]; ok {
					delete(streams, stream.id)
					close(stream.send)
				}
			}
		case notification := <-m.notifications:
			m.dispatch(notification)
		}
	}
}

// dispatch fans a notification out to the wallet's open streams. The send is
// non-blocking: a stream whose writer died but is not yet unregistered must
// not stall the hub loop, so its message is dropped instead.
func (m *Manager) dispatch(notification *models.Notification) {
	streams, ok := m.wallets[notification.ClientID]
	if !ok {
		return
	}

	for _, s := range streams {
		select {
		case s.send <- notification.Message:
		default:
			log.Warnw("dropping a notification for a stalled stream", "subscriber", notification.ClientID)
		}
	}
}
