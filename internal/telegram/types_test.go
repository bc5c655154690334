package telegram

import (
	"testing"

	"github.com/gotd/td/tg"
)

func TestChat_InputPeer(t *testing.T) {
	tests := []struct {
		name string
		chat Chat
		want string
	}{
		{
			name: "private chat",
			chat: Chat{ID: 10, AccessHash: 77, Kind: KindPrivate},
			want: "inputPeerUser",
		},
		{
			name: "basic group",
			chat: Chat{ID: 20, Kind: KindGroup},
			want: "inputPeerChat",
		},
		{
			name: "supergroup",
			chat: Chat{ID: 30, AccessHash: 88, Kind: KindSupergroup},
			want: "inputPeerChannel",
		},
		{
			name: "broadcast channel",
			chat: Chat{ID: 40, AccessHash: 99, Kind: KindChannel},
			want: "inputPeerChannel",
		},
		{
			name: "unknown",
			chat: Chat{ID: 50},
			want: "inputPeerEmpty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.chat.InputPeer()
			if got.TypeName() != tt.want {
				t.Errorf("InputPeer() = %s, want %s", got.TypeName(), tt.want)
			}
		})
	}
}

func TestChat_InputPeer_CarriesIdentity(t *testing.T) {
	c := Chat{ID: 123, AccessHash: 456, Kind: KindSupergroup}

	p, ok := c.InputPeer().(*tg.InputPeerChannel)
	if !ok {
		t.Fatalf("InputPeer() = %T, want *tg.InputPeerChannel", c.InputPeer())
	}
	if p.ChannelID != 123 || p.AccessHash != 456 {
		t.Errorf("InputPeerChannel = %+v, want ChannelID 123 AccessHash 456", p)
	}
}

func TestChat_IsChannelKind(t *testing.T) {
	if (&Chat{Kind: KindPrivate}).IsChannelKind() {
		t.Error("private chat reported as channel kind")
	}
	if (&Chat{Kind: KindGroup}).IsChannelKind() {
		t.Error("basic group reported as channel kind")
	}
	if !(&Chat{Kind: KindSupergroup}).IsChannelKind() {
		t.Error("supergroup not reported as channel kind")
	}
	if !(&Chat{Kind: KindChannel}).IsChannelKind() {
		t.Error("channel not reported as channel kind")
	}
}

func TestChat_Label(t *testing.T) {
	withTitle := Chat{ID: 1, Title: "My Chat"}
	if got := withTitle.Label(); got != "My Chat (1)" {
		t.Errorf("Label() = %q", got)
	}

	withUsername := Chat{ID: 2, Username: "someone"}
	if got := withUsername.Label(); got != "@someone (2)" {
		t.Errorf("Label() = %q", got)
	}

	bare := Chat{ID: 3}
	if got := bare.Label(); got != "chat 3" {
		t.Errorf("Label() = %q", got)
	}
}

func TestMessage_Own(t *testing.T) {
	const selfID = int64(500)

	tests := []struct {
		name string
		msg  Message
		want bool
	}{
		{"outgoing flag", Message{ID: 1, Out: true}, true},
		{"from self without flag", Message{ID: 2, FromID: selfID}, true},
		{"foreign", Message{ID: 3, FromID: 42}, false},
		{"hidden sender", Message{ID: 4}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.Own(selfID); got != tt.want {
				t.Errorf("Own(%d) = %v, want %v", selfID, got, tt.want)
			}
		})
	}
}

func TestChatKind_String(t *testing.T) {
	cases := map[ChatKind]string{
		KindPrivate:    "private",
		KindGroup:      "group",
		KindSupergroup: "supergroup",
		KindChannel:    "channel",
		KindUnknown:    "unknown",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", kind, got, want)
		}
	}
}
