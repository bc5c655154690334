package telegram

import (
	"fmt"

	"github.com/celestix/gotgproto"
	"github.com/celestix/gotgproto/sessionMaker"
	"github.com/glebarez/sqlite"

	"github.com/lonesomestranger/tcleaner/internal/config"
)

// NewProtoClient builds a signed-in gotgproto client from config.
//
// A TG_SESSION_STRING takes precedence and runs fully in memory. Without
// one, the sqlite session database is used: the first run walks through
// the interactive phone login and later runs reuse the stored session.
func NewProtoClient(cfg *config.Config) (*gotgproto.Client, error) {
	if cfg.TGApiID == 0 || cfg.TGApiHash == "" {
		return nil, fmt.Errorf("TG_API_ID and TG_API_HASH must be set")
	}

	if cfg.TGSessionStr != "" {
		return newStringSessionClient(cfg)
	}
	return newPhoneSessionClient(cfg)
}

func newStringSessionClient(cfg *config.Config) (*gotgproto.Client, error) {
	client, err := gotgproto.NewClient(
		cfg.TGApiID,
		cfg.TGApiHash,
		gotgproto.ClientTypePhone(""),
		&gotgproto.ClientOpts{
			Session:          sessionMaker.StringSession(cfg.TGSessionStr),
			DisableCopyright: true,
			InMemory:         true,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("create telegram client from session string: %w", err)
	}
	return client, nil
}

func newPhoneSessionClient(cfg *config.Config) (*gotgproto.Client, error) {
	client, err := gotgproto.NewClient(
		cfg.TGApiID,
		cfg.TGApiHash,
		gotgproto.ClientTypePhone(cfg.TGPhone),
		&gotgproto.ClientOpts{
			Session:          sessionMaker.SqlSession(sqlite.Open(cfg.SessionDB)),
			DisableCopyright: true,
			InMemory:         false,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("create telegram client with session db %s: %w", cfg.SessionDB, err)
	}
	return client, nil
}
