// Package links extracts and parses t.me chat links.
package links

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Kind classifies which t.me grammar branch a link matched.
type Kind int

const (
	// KindUsername is a public link: t.me/<username>.
	KindUsername Kind = iota
	// KindInvite is a private invite link: t.me/+<hash> or t.me/joinchat/<hash>.
	KindInvite
	// KindInternal is an internal channel link: t.me/c/<channel id>.
	KindInternal
)

// Ref is a parsed t.me link.
type Ref struct {
	Kind       Kind
	Username   string // public username, KindUsername only
	InviteHash string // invite hash, KindInvite only
	ChannelID  int64  // internal channel id, KindInternal only
	MessageID  int    // trailing message id, informational
	Raw        string // the original string
}

// The internal-id and invite branches come before the bare-username
// branch so that "c" and "joinchat" are never consumed as usernames
// and a /c/<id>/<msgid> link is not cut short at the message id.
var (
	parseRe = regexp.MustCompile(`^(?:https?://)?t\.me/(?:c/(\d+)|(?:joinchat/|\+)([A-Za-z0-9_-]+)|([A-Za-z0-9_]+))(?:/(\d+))?/?$`)

	extractRe = regexp.MustCompile(`https?://t\.me/(?:c/\d+|joinchat/[A-Za-z0-9_-]+|\+[A-Za-z0-9_-]+|[A-Za-z0-9_]+)(?:/\d+)?`)
)

// Parse matches a single link against the t.me grammar.
// Strings that do not match (no t.me prefix, unknown shape) return ok=false.
func Parse(raw string) (Ref, bool) {
	s := strings.TrimSpace(raw)
	m := parseRe.FindStringSubmatch(s)
	if m == nil {
		return Ref{}, false
	}

	ref := Ref{Raw: raw}
	switch {
	case m[1] != "":
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return Ref{}, false
		}
		ref.Kind = KindInternal
		ref.ChannelID = id
	case m[2] != "":
		ref.Kind = KindInvite
		ref.InviteHash = m[2]
	default:
		ref.Kind = KindUsername
		ref.Username = m[3]
	}
	if m[4] != "" {
		// message id suffix is captured but never needed for resolution
		ref.MessageID, _ = strconv.Atoi(m[4])
	}
	return ref, true
}

// Extract scans free-form text for t.me links and returns them
// deduplicated in first-seen order.
func Extract(text string) []string {
	found := extractRe.FindAllString(text, -1)
	if len(found) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(found))
	out := make([]string, 0, len(found))
	for _, l := range found {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// ExtractFile reads a file and extracts every t.me link from it.
func ExtractFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open links file: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		sb.WriteString(sc.Text())
		sb.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read links file: %w", err)
	}
	return Extract(sb.String()), nil
}

func (k Kind) String() string {
	switch k {
	case KindUsername:
		return "username"
	case KindInvite:
		return "invite"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}
