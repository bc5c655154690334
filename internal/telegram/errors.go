package telegram

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"
	"time"

	"github.com/gotd/td/tgerr"
)

// FaultKind is the category of a failed Telegram call. Every remote
// error maps to exactly one kind so callers can branch without string
// matching.
type FaultKind int

const (
	// FaultNone means the call succeeded.
	FaultNone FaultKind = iota
	// FaultFlood is a FLOOD_WAIT throttle; Wait holds the mandated pause.
	FaultFlood
	// FaultDenied is a permission refusal (revoke not allowed, admin required).
	FaultDenied
	// FaultNotFound covers unknown targets: dead invites, bad usernames,
	// invalid message ids, chats the account cannot see.
	FaultNotFound
	// FaultTransient is a network-level failure worth retrying.
	FaultTransient
	// FaultUnknown is everything else; callers treat it as terminal.
	FaultUnknown
)

func (k FaultKind) String() string {
	switch k {
	case FaultNone:
		return "none"
	case FaultFlood:
		return "flood"
	case FaultDenied:
		return "denied"
	case FaultNotFound:
		return "not_found"
	case FaultTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Fault is a classified call failure.
type Fault struct {
	Kind FaultKind
	Wait time.Duration // flood pause mandated by the server, FaultFlood only
	Err  error
}

var deniedCodes = []string{
	"MESSAGE_DELETE_FORBIDDEN",
	"CHAT_ADMIN_REQUIRED",
	"MESSAGE_AUTHOR_REQUIRED",
	"CHAT_WRITE_FORBIDDEN",
	"USER_BANNED_IN_CHANNEL",
}

var notFoundCodes = []string{
	"MESSAGE_ID_INVALID",
	"INVITE_HASH_INVALID",
	"INVITE_HASH_EXPIRED",
	"INVITE_REQUEST_SENT",
	"USER_NOT_PARTICIPANT",
	"USERNAME_INVALID",
	"USERNAME_NOT_OCCUPIED",
	"CHANNEL_INVALID",
	"CHANNEL_PRIVATE",
	"CHAT_ID_INVALID",
	"PEER_ID_INVALID",
}

var transientCodes = []string{
	"RPC_CALL_FAIL",
	"RPC_MCGET_FAIL",
	"CONNECTION_NOT_INITED",
	"Timeout",
}

// Classify maps an error from a Telegram call to a Fault.
func Classify(err error) Fault {
	if err == nil {
		return Fault{Kind: FaultNone}
	}
	if wait, ok := tgerr.AsFloodWait(err); ok {
		return Fault{Kind: FaultFlood, Wait: wait, Err: err}
	}
	if tgerr.Is(err, deniedCodes...) {
		return Fault{Kind: FaultDenied, Err: err}
	}
	if tgerr.Is(err, notFoundCodes...) {
		return Fault{Kind: FaultNotFound, Err: err}
	}
	if isTransient(err) {
		return Fault{Kind: FaultTransient, Err: err}
	}
	return Fault{Kind: FaultUnknown, Err: err}
}

// IsInviteFault reports whether the error is one of the invite-link
// failures that a join attempt may recover from.
func IsInviteFault(err error) bool {
	return tgerr.Is(err, "INVITE_HASH_INVALID", "INVITE_HASH_EXPIRED", "USER_NOT_PARTICIPANT")
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return tgerr.Is(err, transientCodes...)
}
