package network

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net"

	"blockindex/pkg/core"
	"blockindex/pkg/protocol"
	"blockindex/pkg/query"
)

type TCPServer struct {
	table    *core.Table
	listener net.Listener
}

func NewTCPServer(table *core.Table) *TCPServer {
	return &TCPServer{table: table}
}

func (s *TCPServer) Listen(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = listener
	log.Printf("[TCP] Listening on %s (Binary Protocol)", listener.Addr())
	return nil
}

// Addr is the bound address once Listen has returned.
func (s *TCPServer) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve accepts connections until the listener is closed.
func (s *TCPServer) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				log.Printf("[TCP] Accept error: %v", err)
				continue
			}
			return err
		}
		go s.handleConn(conn)
	}
}

func (s *TCPServer) Start(addr string) error {
	if err := s.Listen(addr); err != nil {
		return err
	}
	return s.Serve()
}

func (s *TCPServer) Close() error {
	return s.listener.Close()
}

func (s *TCPServer) handleConn(conn net.Conn) {
	defer conn.Close()

	for {
		req, err := protocol.Decode(conn)
		if err != nil {
			if err != io.EOF {
				log.Printf("[TCP] Decode error: %v", err)
			}
			return
		}

		switch req.Op {
		case protocol.OpQuery:
			data, err := s.query(string(req.Value))
			s.reply(conn, data, err)

		case protocol.OpStats:
			data, err := json.Marshal(s.table.Stats())
			s.reply(conn, data, err)

		default:
			s.reply(conn, nil, errors.New("unknown op"))
		}
	}
}

func (s *TCPServer) query(sql string) ([]byte, error) {
	q, err := query.Parse(sql)
	if err != nil {
		return nil, err
	}
	res, err := s.table.Execute(q)
	if err != nil {
		return nil, err
	}
	return protocol.EncodeResult(res.Blocks, res.Records)
}

func (s *TCPServer) reply(conn net.Conn, data []byte, err error) {
	if err != nil {
		data = []byte(err.Error())
		err = protocol.Encode(conn, protocol.RespErr, nil, data)
	} else {
		err = protocol.Encode(conn, protocol.RespVal, nil, data)
	}
	if err != nil {
		log.Printf("[TCP] Write error: %v", err)
	}
}
