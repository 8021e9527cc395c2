package redis

import (
	"bufio"
	"bytes"
	"log"

	"github.com/Avik32223/dlinkedlist/internal/config"
	"github.com/Avik32223/dlinkedlist/internal/transport"
)

type Server struct {
	Transport transport.Transport
	quitCh    chan struct{}
	verbose   bool

	state *State
}

func NewServer(cfg *config.Config) (*Server, error) {
	seed, err := cfg.Seed()
	if err != nil {
		return nil, err
	}
	state, err := NewState(cfg.Shards, seed)
	if err != nil {
		return nil, err
	}
	t := transport.NewTCPTransport(cfg.Addr)
	t.Split = splitMessages

	s := Server{
		Transport: t,
		quitCh:    make(chan struct{}),
		verbose:   cfg.Verbose,
		state:     state,
	}
	return &s, nil
}

// splitMessages frames client input. Clients send commands as an array of
// bulk strings; anything else is treated as an inline command line.
func splitMessages(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if data[0] == '*' {
		// A complete array: return it and leave the rest for the next
		// call, which is what makes pipelining work.
		if c := eatArray(data, 0); c > 0 {
			return c, data[:c], nil
		}
		// Pass a frame that can never complete on as a token, so the
		// client gets an error reply instead of a stalled connection.
		if c := badFrame(data); c > 0 {
			return c, bytes.TrimSuffix(data[:c], crlf), nil
		}
		if atEOF {
			return 0, data, bufio.ErrFinalToken
		}

		// Request more data
		return 0, nil, nil
	}
	return bufio.ScanLines(data, atEOF)
}

func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

func (s *Server) Listen() error {
	if err := s.Transport.Listen(); err != nil {
		return err
	}
	log.Printf("listening on %s", s.Transport.Addr())
	return nil
}

// Serve handles messages one at a time until Stop is called.
func (s *Server) Serve() error {
	defer s.Transport.Close()
	for {
		select {
		case msg := <-s.Transport.Consume():
			if err := s.HandleMessage(msg); err != nil {
				log.Printf("reply failed: %s", err)
			}

		case <-s.quitCh:
			return nil
		}
	}
}

func (s *Server) Stop() error {
	close(s.quitCh)
	return nil
}

func (s *Server) HandleMessage(m transport.Message) error {
	x, err := RunCommand(s.state, m.Payload)
	if err != nil {
		if s.verbose {
			log.Printf("command %q: %s", m.Payload, err)
		}
		x, _ := Serialize(err)
		return m.Peer.Send([]byte(x))
	}
	res, err := Serialize(x)
	if err != nil {
		log.Printf("serialize: %s", err)
		x, _ := Serialize(err)
		return m.Peer.Send([]byte(x))
	}
	return m.Peer.Send([]byte(res))
}
