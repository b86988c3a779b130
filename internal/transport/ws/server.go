package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"gridciv.ai/internal/protocol"
)

type Server struct {
	hub    *Hub
	submit *protocol.SubmitValidator
	log    *log.Logger

	upgrader websocket.Upgrader
}

// NewServer wires the websocket edge. submit may be nil, in which case SUBMIT
// frames skip schema validation and rely on the engine's own checks.
func NewServer(hub *Hub, submit *protocol.SubmitValidator, logger *log.Logger) *Server {
	s := &Server{
		hub:    hub,
		submit: submit,
		log:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
	return s
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		civID, out := s.handshake(conn)
		if civID == "" {
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				break
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil || base.ProtocolVersion != protocol.Version {
				send(out, protocol.ErrorMsg{
					Type: protocol.TypeError, ProtocolVersion: protocol.Version,
					Code: protocol.ErrProtoBadRequest,
				})
				continue
			}
			switch base.Type {
			case protocol.TypeSubmit:
				if s.submit != nil {
					if err := s.submit.Validate(msg); err != nil {
						send(out, protocol.ErrorMsg{
							Type: protocol.TypeError, ProtocolVersion: protocol.Version,
							Code: protocol.ErrProtoBadRequest, Message: err.Error(),
						})
						continue
					}
				}
				var sub protocol.SubmitMsg
				if err := json.Unmarshal(msg, &sub); err != nil {
					send(out, protocol.ErrorMsg{
						Type: protocol.TypeError, ProtocolVersion: protocol.Version,
						Code: protocol.ErrBadRequest,
					})
					continue
				}
				turn, results := s.hub.Submit(civID, sub.Actions)
				send(out, protocol.SubmitAckMsg{
					Type:            protocol.TypeSubmitAck,
					ProtocolVersion: protocol.Version,
					ReqID:           sub.ReqID,
					Turn:            turn,
					Results:         results,
				})
			case protocol.TypeEndTurn:
				s.hub.EndTurn(civID)
			default:
				send(out, protocol.ErrorMsg{
					Type: protocol.TypeError, ProtocolVersion: protocol.Version,
					Code: protocol.ErrProtoBadRequest,
				})
			}
		}

		s.hub.Leave(civID)
	}
}

func (s *Server) handshake(conn *websocket.Conn) (civID string, out chan []byte) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return "", nil
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return "", nil
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return "", nil
	}
	if hello.CivName == "" {
		hello.CivName = "civilization"
	}

	out = make(chan []byte, 32)

	// Token "resume:<civ_id>" reattaches a dropped connection.
	if hello.Auth != nil {
		if id, ok := strings.CutPrefix(strings.TrimSpace(hello.Auth.Token), "resume:"); ok {
			if err := s.hub.Resume(id, out); err == nil {
				civID = id
			}
		}
	}
	if civID == "" {
		civID, err = s.hub.Join(hello.CivName, hello.LeaderName, out)
		if err != nil {
			_ = writeJSON(conn, protocol.ErrorMsg{
				Type: protocol.TypeError, ProtocolVersion: protocol.Version,
				Code: err.Error(),
			})
			return "", nil
		}
	}

	g := s.hub.Game()
	rules := g.Rules()
	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		CivID:           civID,
		GameParams: protocol.GameParams{
			Width:    g.Width(),
			Height:   g.Height(),
			MaxTurns: g.MaxTurns(),
			Seed:     g.Seed(),
		},
		Catalogs: protocol.CatalogDigests{
			UnitsDigest:        rules.UnitsDigest,
			BuildingsDigest:    rules.BuildingsDigest,
			TechsDigest:        rules.TechsDigest,
			GovernmentsDigest:  rules.GovernmentsDigest,
			ImprovementsDigest: rules.ImprovementsDigest,
			GreatPeopleDigest:  rules.GreatPeopleDigest,
		},
	}
	if err := writeJSON(conn, welcome); err != nil {
		return "", nil
	}
	if err := writeJSON(conn, s.hub.StateFor(civID)); err != nil {
		return "", nil
	}
	if s.log != nil {
		s.log.Printf("civ %s joined as %q", civID, hello.CivName)
	}
	return civID, out
}

// send marshals and enqueues without blocking; a slow client drops messages
// rather than stalling the hub.
func send(out chan []byte, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case out <- b:
	default:
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
