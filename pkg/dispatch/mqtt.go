package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/protobuf/proto"
	structpb "github.com/golang/protobuf/ptypes/struct"
)

// DefaultPublishTimeout bounds the wait for a publish acknowledgement.
const DefaultPublishTimeout = time.Second

// ErrPublishTimeout indicates the broker didn't acknowledge in time.
var ErrPublishTimeout = errors.New("publish timeout")

// Payload fields of a published command.
const (
	FieldLine   = "line"
	FieldDevice = "device"
	FieldTime   = "time"
)

// MQTT publishes commands to DEVICE/cmd under the queue prefix.
type MQTT struct {
	Queue   *Queue
	Device  string
	Timeout time.Duration
	Now     func() time.Time

	client paho.Client
}

// NewMQTT creates an MQTT publisher on q.
func NewMQTT(q *Queue, device string) *MQTT {
	return &MQTT{Queue: q, Device: device, Timeout: DefaultPublishTimeout, Now: time.Now}
}

// NewMQTTFromURL creates an MQTT publisher with its own client.
func NewMQTTFromURL(brokerURL, device string) (*MQTT, error) {
	q, client, err := NewQueueFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	m := NewMQTT(q, device)
	m.client = client
	return m, nil
}

// Connect connects the owned client.
func (m *MQTT) Connect() error {
	if m.client == nil {
		return nil
	}
	token := m.client.Connect()
	token.Wait()
	return token.Error()
}

// Close implements io.Closer.
func (m *MQTT) Close() error {
	if m.client != nil {
		m.client.Disconnect(250)
	}
	return nil
}

// Topic is where commands are published, relative to the queue prefix.
func (m *MQTT) Topic() string {
	return m.Device + "/cmd"
}

// HandleCommand implements console.CommandHandler.
func (m *MQTT) HandleCommand(ctx context.Context, line []byte) error {
	payload, err := EncodeCommand(line, m.Device, m.Now())
	if err != nil {
		return err
	}
	token := m.Queue.Pub(m.Topic(), payload)
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	if !token.WaitTimeout(timeout) {
		return ErrPublishTimeout
	}
	return token.Error()
}

// EncodeCommand encodes a command as a protobuf Struct.
func EncodeCommand(line []byte, device string, at time.Time) ([]byte, error) {
	return proto.Marshal(&structpb.Struct{
		Fields: map[string]*structpb.Value{
			FieldLine:   {Kind: &structpb.Value_StringValue{StringValue: string(line)}},
			FieldDevice: {Kind: &structpb.Value_StringValue{StringValue: device}},
			FieldTime:   {Kind: &structpb.Value_StringValue{StringValue: at.UTC().Format(time.RFC3339Nano)}},
		},
	})
}

// Command is a decoded published command.
type Command struct {
	Line   string
	Device string
	Time   time.Time
}

// DecodeCommand decodes a payload produced by EncodeCommand.
func DecodeCommand(payload []byte) (*Command, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(payload, &s); err != nil {
		return nil, err
	}
	cmd := &Command{
		Line:   s.Fields[FieldLine].GetStringValue(),
		Device: s.Fields[FieldDevice].GetStringValue(),
	}
	if ts := s.Fields[FieldTime].GetStringValue(); ts != "" {
		at, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("invalid time %q: %v", ts, err)
		}
		cmd.Time = at
	}
	return cmd, nil
}
