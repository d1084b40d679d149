package client

import (
	"encoding/json"
	"errors"
	"net"
	"time"

	"blockindex/pkg/common"
	"blockindex/pkg/protocol"
)

type Client struct {
	conn net.Conn
	addr string
}

// Result is a remote query answer.
type Result struct {
	Records []common.Record
	Blocks  int
}

func Dial(addr string) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, err
	}
	return &Client{
		conn: conn,
		addr: addr,
	}, nil
}

// Query sends one statement in the syntax accepted by query.Parse.
func (c *Client) Query(sql string) (*Result, error) {
	data, err := c.roundTrip(protocol.OpQuery, []byte(sql))
	if err != nil {
		return nil, err
	}
	blocks, records, err := protocol.DecodeResult(data)
	if err != nil {
		return nil, err
	}
	return &Result{Records: records, Blocks: blocks}, nil
}

func (c *Client) Stats() (map[string]interface{}, error) {
	data, err := c.roundTrip(protocol.OpStats, nil)
	if err != nil {
		return nil, err
	}
	stats := map[string]interface{}{}
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) roundTrip(op byte, val []byte) ([]byte, error) {
	if err := protocol.Encode(c.conn, op, nil, val); err != nil {
		if errors.Is(err, protocol.ErrFrameTooLarge) {
			return nil, err
		}
		return c.reconnectAndRetry(op, val)
	}
	pkg, err := protocol.Decode(c.conn)
	if err != nil {
		return c.reconnectAndRetry(op, val)
	}
	return unwrap(pkg)
}

func (c *Client) reconnectAndRetry(op byte, val []byte) ([]byte, error) {
	c.conn.Close()
	conn, err := net.DialTimeout("tcp", c.addr, 5*time.Second)
	if err != nil {
		return nil, err
	}
	c.conn = conn

	// Re-send
	if err := protocol.Encode(c.conn, op, nil, val); err != nil {
		return nil, err
	}
	pkg, err := protocol.Decode(c.conn)
	if err != nil {
		return nil, err
	}
	return unwrap(pkg)
}

func unwrap(pkg *protocol.Packet) ([]byte, error) {
	switch pkg.Op {
	case protocol.RespVal:
		return pkg.Value, nil
	case protocol.RespErr:
		return nil, errors.New(string(pkg.Value))
	default:
		return nil, errors.New("unknown response")
	}
}
