package connection

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const defaultIdleTimeout time.Duration = time.Hour

type SessionManager interface {
	GenerateNewSession(conn *websocket.Conn) *Session
	FindSession(sessionId string) (*Session, error)
	TerminateSession(sessionId string)

	WriteToSessionConn(session *Session, msg interface{}) error
	ReadFromSessionConn(session *Session) (int, []byte, error)
	Communicate(receiverSessionId string, msg interface{}) error

	CleanupPeriodically(ctx context.Context)
}

type BattleshipSessionManager struct {
	idleTimeout time.Duration
	sessions    map[string]*Session
	mu          sync.RWMutex
}

var _ SessionManager = (*BattleshipSessionManager)(nil)

func NewBattleshipSessionManager(idleTimeout time.Duration) *BattleshipSessionManager {
	if idleTimeout <= 0 {
		idleTimeout = defaultIdleTimeout
	}

	return &BattleshipSessionManager{
		sessions:    make(map[string]*Session, 10),
		idleTimeout: idleTimeout,
	}
}

func (bsm *BattleshipSessionManager) GenerateNewSession(conn *websocket.Conn) *Session {
	sessionId := base64.RawURLEncoding.EncodeToString([]byte(uuid.New().String()))
	session := NewSession(sessionId, conn)

	bsm.mu.Lock()
	bsm.sessions[sessionId] = session
	bsm.mu.Unlock()

	return session
}

func (bsm *BattleshipSessionManager) FindSession(sessionId string) (*Session, error) {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()

	session, prs := bsm.sessions[sessionId]
	if !prs || session == nil {
		return nil, NewConnErr(ConnSessionNotFound).AddDesc("session not found: " + sessionId)
	}

	return session, nil
}

func (bsm *BattleshipSessionManager) TerminateSession(sessionId string) {
	bsm.mu.Lock()
	delete(bsm.sessions, sessionId)
	bsm.mu.Unlock()
	log.Printf("session terminated: %s\n", sessionId)
}

// This method sends the msg from one session to another
func (bsm *BattleshipSessionManager) Communicate(receiverSessionId string, msg interface{}) error {
	receiverSession, err := bsm.FindSession(receiverSessionId)
	if err != nil {
		return err
	}
	return bsm.WriteToSessionConn(receiverSession, msg)
}

func (bsm *BattleshipSessionManager) WriteToSessionConn(session *Session, msg interface{}) error {
	return session.writeToConnWithRetry(msg)
}

func (bsm *BattleshipSessionManager) ReadFromSessionConn(session *Session) (int, []byte, error) {
	var retries uint8

	for {
		messageType, payload, err := session.conn.ReadMessage()
		if err == nil {
			session.touch()
			return messageType, payload, nil
		}

		switch session.handleReadFromConnErr(err, retries) {
		case ConnLoopContinue:
			retries++
			continue

		default:
			return -1, []byte{}, err
		}
	}
}

// To ensure that there is no dangling connections, the session
// manager closes connections that stayed silent for longer than
// idleTimeout. Closing the conn ends its read loop, which then
// cleans up the player's game.
func (bsm *BattleshipSessionManager) CleanupPeriodically(ctx context.Context) {
	ticker := time.NewTicker(bsm.idleTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bsm.cleanup(time.Now())
		}
	}
}

func (bsm *BattleshipSessionManager) cleanup(now time.Time) {
	assumedClosedConns := 10
	toClose := make([]*Session, 0, assumedClosedConns)

	bsm.mu.Lock()
	for ID, session := range bsm.sessions {
		if now.Sub(session.idleSince()) > bsm.idleTimeout {
			toClose = append(toClose, session)
			delete(bsm.sessions, ID)
		}
	}
	bsm.mu.Unlock()

	if len(toClose) > 0 {
		log.Println("Clean up sessions:")
	}
	for _, session := range toClose {
		if session.conn != nil {
			_ = session.conn.Close()
		}
		log.Printf("removed: %s", session.id)
	}
}

// FetchCodeFromMsg reads the "code" field every request carries. A
// message without one is an error as well.
func FetchCodeFromMsg(payload []byte) (uint8, error) {
	var signal struct {
		Code *uint8 `json:"code"`
	}
	const randomInvalidCode uint8 = 255

	if err := json.Unmarshal(payload, &signal); err != nil {
		return randomInvalidCode, err
	}
	if signal.Code == nil {
		return randomInvalidCode, NewConnErr(ConnInvalidMsgType).AddDesc("code field is missing")
	}

	return *signal.Code, nil
}
