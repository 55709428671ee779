// Package tracker receives wrist positions from an out-of-process pose
// tracker over a websocket and feeds them to the avatar.
package tracker

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Message types.
const (
	MsgHello   = "hello"
	MsgWelcome = "welcome"
	MsgPose    = "pose"
)

var (
	ErrEmptyFrame  = errors.New("tracker: empty frame")
	ErrUnknownType = errors.New("tracker: unknown message type")
)

// Envelope wraps every text frame: {"t":"pose","p":{...}}.
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"`
}

// binaryEnvelope is the msgpack form of Envelope.
type binaryEnvelope struct {
	T string             `msgpack:"t"`
	P msgpack.RawMessage `msgpack:"p"`
}

// Pose is one normalized landmark sample. V is the tracker's visibility
// score in [0,1].
type Pose struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	V float64 `json:"v" msgpack:"v"`
}

// Hello opens a session.
type Hello struct {
	Client string `json:"client" msgpack:"client"`
}

// Welcome acknowledges a Hello.
type Welcome struct {
	Server   string  `json:"server" msgpack:"server"`
	Mirror   bool    `json:"mirror" msgpack:"mirror"`
	MinScore float64 `json:"minVisibility" msgpack:"minVisibility"`
}

// Message is a decoded frame. Exactly one payload field is set, matching T.
type Message struct {
	T       string
	Pose    *Pose
	Hello   *Hello
	Welcome *Welcome
}

// Encode wraps payload in an envelope. Binary frames use msgpack, text
// frames JSON.
func Encode(t string, payload any, binary bool) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("tracker: encode without message type")
	}
	if payload == nil {
		return nil, fmt.Errorf("tracker: encode %q with nil payload", t)
	}

	if binary {
		pb, err := msgpack.Marshal(payload)
		if err != nil {
			return nil, err
		}
		return msgpack.Marshal(binaryEnvelope{T: t, P: pb})
	}

	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{T: t, P: pb})
}

// Decode parses one frame.
func Decode(data []byte, binary bool) (Message, error) {
	if len(data) == 0 {
		return Message{}, ErrEmptyFrame
	}

	var t string
	var unmarshal func(any) error
	if binary {
		var env binaryEnvelope
		if err := msgpack.Unmarshal(data, &env); err != nil {
			return Message{}, fmt.Errorf("tracker: decode envelope: %w", err)
		}
		t = env.T
		unmarshal = func(v any) error {
			if len(env.P) == 0 {
				return ErrEmptyFrame
			}
			return msgpack.Unmarshal(env.P, v)
		}
	} else {
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return Message{}, fmt.Errorf("tracker: decode envelope: %w", err)
		}
		t = env.T
		unmarshal = func(v any) error {
			if len(env.P) == 0 {
				return ErrEmptyFrame
			}
			return json.Unmarshal(env.P, v)
		}
	}

	msg := Message{T: t}
	var err error
	switch t {
	case MsgPose:
		msg.Pose = new(Pose)
		err = unmarshal(msg.Pose)
	case MsgHello:
		msg.Hello = new(Hello)
		err = unmarshal(msg.Hello)
	case MsgWelcome:
		msg.Welcome = new(Welcome)
		err = unmarshal(msg.Welcome)
	default:
		return msg, fmt.Errorf("%w %q", ErrUnknownType, t)
	}
	if err != nil {
		return msg, fmt.Errorf("tracker: decode %s payload: %w", t, err)
	}
	return msg, nil
}
