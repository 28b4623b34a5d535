package net

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chrisjuchem/botgame/internal/game"
)

// Config tunes a Server.
type Config struct {
	TickInterval  time.Duration // how often queued messages are processed
	OutboundQueue int           // per-connection backlog of sends; a full backlog drops the connection
	WriteTimeout  time.Duration // a single write stalled longer than this drops the connection
	MaxFrameBytes int
	Rules         game.MatchConfig // Logger is ignored; matches log through the server's logger
}

func (c *Config) setDefaults() {
	if c.TickInterval <= 0 {
		c.TickInterval = 20 * time.Millisecond
	}
	if c.OutboundQueue <= 0 {
		c.OutboundQueue = 64
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.MaxFrameBytes <= 0 {
		c.MaxFrameBytes = DefaultMaxFrameBytes
	}
}

// Server is the authoritative match host. Connections feed a single inbox;
// everything that touches match state runs inside Tick, on one goroutine.
type Server struct {
	cfg    Config
	log    *zap.Logger
	inbox  chan event
	ctx    context.Context
	cancel context.CancelFunc
	ids    atomic.Uint64

	// Owned by the goroutine calling Tick.
	peers   map[uint64]*peer
	queue   []*peer
	matches map[game.MatchID]*session
}

type eventKind int

const (
	evConnect eventKind = iota
	evMessage
	evBadFrame
	evDisconnect
)

type event struct {
	kind eventKind
	peer *peer
	msg  Message
	err  error
}

// session is one running match and its two connections.
type session struct {
	match *game.Match
	peers [2]*peer
	ended bool
}

// peer is one connection. The channel fields are shared with its reader and
// writer goroutines; the rest belongs to the tick goroutine.
type peer struct {
	id   uint64
	conn Conn
	out  chan []Message // one entry per send, written back to back
	done chan struct{}
	once sync.Once

	name    string
	deck    game.Decklist
	player  game.PlayerID
	queued  bool
	session *session
}

func (p *peer) close() {
	p.once.Do(func() {
		close(p.done)
		p.conn.Close()
	})
}

// NewServer creates a server. Call Close to release its connections.
func NewServer(cfg Config, logger *zap.Logger) *Server {
	cfg.setDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg:     cfg,
		log:     logger,
		inbox:   make(chan event, 1024),
		ctx:     ctx,
		cancel:  cancel,
		peers:   make(map[uint64]*peer),
		matches: make(map[game.MatchID]*session),
	}
}

// Run processes ticks and serves the listeners until ctx is cancelled.
func (s *Server) Run(ctx context.Context, listeners ...net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ticker := time.NewTicker(s.cfg.TickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.Close()
				return nil
			case <-ticker.C:
				s.Tick()
			}
		}
	})
	for _, ln := range listeners {
		g.Go(func() error { return s.Serve(ctx, ln) })
	}
	return g.Wait()
}

// Serve accepts stream connections until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	s.log.Info("listening", zap.String("addr", ln.Addr().String()))
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		s.Attach(NewStreamConn(conn, s.cfg.MaxFrameBytes))
	}
}

// Close disconnects everyone. The server cannot be reused.
func (s *Server) Close() {
	s.cancel()
}

// MaxFrameBytes is the configured frame limit, for transports that wrap
// their own connections.
func (s *Server) MaxFrameBytes() int {
	return s.cfg.MaxFrameBytes
}

// Attach starts serving a connection from any transport.
func (s *Server) Attach(conn Conn) {
	p := &peer{
		id:   s.ids.Add(1),
		conn: conn,
		out:  make(chan []Message, s.cfg.OutboundQueue),
		done: make(chan struct{}),
	}
	s.post(event{kind: evConnect, peer: p})
	go s.readLoop(p)
	go s.writeLoop(p)
}

func (s *Server) post(ev event) {
	select {
	case s.inbox <- ev:
	case <-s.ctx.Done():
	}
}

func (s *Server) readLoop(p *peer) {
	for {
		msg, err := p.conn.ReadMessage(s.ctx)
		var bad *DecodeError
		switch {
		case errors.As(err, &bad):
			s.post(event{kind: evBadFrame, peer: p, err: err})
		case err != nil:
			s.post(event{kind: evDisconnect, peer: p, err: err})
			return
		default:
			s.post(event{kind: evMessage, peer: p, msg: msg})
		}
	}
}

func (s *Server) writeLoop(p *peer) {
	for {
		select {
		case msgs := <-p.out:
			for _, msg := range msgs {
				if err := s.write(p, msg); err != nil {
					s.log.Warn("write failed", zap.Uint64("peer", p.id), zap.Error(err))
					p.close()
					return
				}
			}
		case <-p.done:
			return
		case <-s.ctx.Done():
			p.close()
			return
		}
	}
}

// write sends one message, giving up after the write timeout. The reader
// sees the closed connection and reports the disconnect.
func (s *Server) write(p *peer, msg Message) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.WriteTimeout)
	defer cancel()
	return p.conn.WriteMessage(ctx, msg)
}

// Tick handles every event queued so far, then pairs waiting players.
func (s *Server) Tick() {
	for n := len(s.inbox); n > 0; n-- {
		s.handle(<-s.inbox)
	}
	s.matchmake()
}

func (s *Server) handle(ev event) {
	p := ev.peer
	if ev.kind == evConnect {
		s.peers[p.id] = p
		s.log.Info("peer connected", zap.Uint64("peer", p.id), zap.String("remote", p.conn.RemoteAddr()))
		return
	}
	if _, ok := s.peers[p.id]; !ok {
		return
	}
	switch ev.kind {
	case evDisconnect:
		s.log.Info("peer disconnected", zap.Uint64("peer", p.id), zap.Error(ev.err))
		s.drop(p, "player disconnected")
	case evBadFrame:
		s.log.Warn("malformed message", zap.Uint64("peer", p.id), zap.Error(ev.err))
		s.send(p, NewError("%v", ev.err))
	case evMessage:
		s.dispatch(p, ev.msg)
	}
}

func (s *Server) dispatch(p *peer, msg Message) {
	switch msg.Type {
	case TypeJoinQueue:
		s.join(p, msg.JoinQueue)
	case TypeActivate:
		s.activate(p, msg.Activate)
	case TypeError:
		s.log.Info("client reported error", zap.Uint64("peer", p.id), zap.String("msg", msg.Error.Msg))
	default:
		s.send(p, NewError("unexpected %s message", msg.Type))
	}
}

// send queues messages for one peer as a single backlog entry, however many
// there are. A peer whose backlog is full is dropped.
func (s *Server) send(p *peer, msgs ...Message) {
	if _, ok := s.peers[p.id]; !ok || len(msgs) == 0 {
		return
	}
	select {
	case p.out <- msgs:
	default:
		s.log.Warn("outbound queue full", zap.Uint64("peer", p.id))
		s.drop(p, "outbound queue full")
	}
}

// broadcast sends the same messages to both players of a match unless it
// has ended.
func (s *Server) broadcast(sess *session, msgs ...Message) {
	for _, p := range sess.peers {
		if sess.ended {
			return
		}
		s.send(p, msgs...)
	}
}

// effectMessages lists a batch's applied effects in order.
func effectMessages(id game.MatchID, b *game.Batch) []Message {
	if b == nil {
		return nil
	}
	msgs := make([]Message, 0, len(b.Applied))
	for _, item := range b.Applied {
		msgs = append(msgs, NewEffect(id, item))
	}
	return msgs
}

// drop forgets a peer, ending its match if it was in one.
func (s *Server) drop(p *peer, reason string) {
	if _, ok := s.peers[p.id]; !ok {
		return
	}
	delete(s.peers, p.id)
	s.unqueue(p)
	if sess := p.session; sess != nil {
		s.endMatch(sess, p, reason)
	}
	p.close()
}

func (s *Server) endMatch(sess *session, leaver *peer, reason string) {
	sess.ended = true
	sess.match.End(reason)
	delete(s.matches, sess.match.ID)
	s.log.Info("match ended", zap.String("match", sess.match.ID.String()), zap.String("reason", reason))
	for _, p := range sess.peers {
		p.session = nil
		if p != leaver {
			s.send(p, NewError(MsgOpponentDisconnected))
		}
	}
}
