package mqtt

import (
	"errors"
	"strings"
	"testing"
)

// =============================================================================
// Lifecycle Tests (no broker required)
// =============================================================================

func TestCloseNil(t *testing.T) {
	client := &Client{}
	err := client.Close()
	if err != nil {
		t.Errorf("Close() on nil client error = %v, want nil", err)
	}
}

func TestIsConnectedUnconnected(t *testing.T) {
	client := &Client{}
	if client.IsConnected() {
		t.Error("IsConnected() = true for unconnected client, want false")
	}
}

// =============================================================================
// Publish Validation Tests
// =============================================================================

func TestPublishValidation(t *testing.T) {
	client := &Client{}

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{
			name:    "empty topic",
			topic:   "",
			payload: []byte("x"),
			qos:     1,
			wantErr: ErrInvalidTopic,
		},
		{
			name:    "invalid qos",
			topic:   "hearth/command/light-living",
			payload: []byte("x"),
			qos:     3,
			wantErr: ErrInvalidQoS,
		},
		{
			name:    "oversized payload",
			topic:   "hearth/command/light-living",
			payload: make([]byte, maxPayloadSize+1),
			qos:     1,
			wantErr: ErrPublishFailed,
		},
		{
			name:    "not connected",
			topic:   "hearth/command/light-living",
			payload: []byte("x"),
			qos:     1,
			wantErr: ErrNotConnected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.Publish(tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Publish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// =============================================================================
// Subscribe Validation Tests
// =============================================================================

func TestSubscribeValidation(t *testing.T) {
	client := &Client{subscriptions: make(map[string]subscription)}
	handler := func(topic string, payload []byte) error { return nil }

	if err := client.Subscribe("", 1, handler); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Subscribe(empty topic) error = %v, want ErrInvalidTopic", err)
	}
	if err := client.Subscribe("hearth/state/+/+", 3, handler); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("Subscribe(qos 3) error = %v, want ErrInvalidQoS", err)
	}
	if err := client.Subscribe("hearth/state/+/+", 1, nil); !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("Subscribe(nil handler) error = %v, want ErrSubscribeFailed", err)
	}
	if err := client.Subscribe("hearth/state/+/+", 1, handler); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Subscribe(disconnected) error = %v, want ErrNotConnected", err)
	}

	if n := client.SubscriptionCount(); n != 0 {
		t.Errorf("SubscriptionCount() = %d after failed subscribes, want 0", n)
	}
}

func TestUnsubscribeValidation(t *testing.T) {
	client := &Client{subscriptions: make(map[string]subscription)}

	if err := client.Unsubscribe(""); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Unsubscribe(empty topic) error = %v, want ErrInvalidTopic", err)
	}
	if err := client.Unsubscribe("hearth/state/+/+"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Unsubscribe(disconnected) error = %v, want ErrNotConnected", err)
	}
}

// =============================================================================
// Topic Builder Tests
// =============================================================================

func TestTopics(t *testing.T) {
	tests := []struct {
		name  string
		build func() string
		want  string
	}{
		{
			name:  "DeviceState",
			build: func() string { return Topics{}.DeviceState("light-living", "switch") },
			want:  "hearth/state/light-living/switch",
		},
		{
			name:  "DeviceCommand",
			build: func() string { return Topics{}.DeviceCommand("light-living") },
			want:  "hearth/command/light-living",
		},
		{
			name:  "DiscoveryRequest",
			build: func() string { return Topics{}.DiscoveryRequest() },
			want:  "hearth/discovery/request",
		},
		{
			name:  "DiscoveryDevices",
			build: func() string { return Topics{}.DiscoveryDevices() },
			want:  "hearth/discovery/devices",
		},
		{
			name:  "SystemStatus",
			build: func() string { return Topics{}.SystemStatus() },
			want:  "hearth/system/status",
		},
		{
			name:  "AllDeviceStates",
			build: func() string { return Topics{}.AllDeviceStates() },
			want:  "hearth/state/+/+",
		},
		{
			name:  "AllDeviceCommands",
			build: func() string { return Topics{}.AllDeviceCommands() },
			want:  "hearth/command/+",
		},
		{
			name:  "AllTopics",
			build: func() string { return Topics{}.AllTopics() },
			want:  "hearth/#",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.build()
			if got != tt.want {
				t.Errorf("%s = %q, want %q", tt.name, got, tt.want)
			}
			if !strings.HasPrefix(got, TopicPrefix) {
				t.Errorf("%s = %q, missing prefix %q", tt.name, got, TopicPrefix)
			}
		})
	}
}

func TestParseStateTopic(t *testing.T) {
	tests := []struct {
		topic      string
		wantDevice string
		wantAttr   string
		wantOK     bool
	}{
		{"hearth/state/light-living/switch", "light-living", "switch", true},
		{"hearth/state/sensor-hall/motion", "sensor-hall", "motion", true},
		{"hearth/state/light-living", "", "", false},
		{"hearth/command/light-living", "", "", false},
		{"hearth/state//switch", "", "", false},
		{"hearth/state/light-living/", "", "", false},
		{"other/state/light-living/switch", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			device, attr, ok := ParseStateTopic(tt.topic)
			if ok != tt.wantOK {
				t.Fatalf("ParseStateTopic(%q) ok = %v, want %v", tt.topic, ok, tt.wantOK)
			}
			if device != tt.wantDevice || attr != tt.wantAttr {
				t.Errorf("ParseStateTopic(%q) = (%q, %q), want (%q, %q)",
					tt.topic, device, attr, tt.wantDevice, tt.wantAttr)
			}
		})
	}
}
