package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/celestix/gotgproto/storage"
	"github.com/glebarez/sqlite"
	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth/qrlogin"
	"github.com/gotd/td/tg"
	"gorm.io/gorm"

	"github.com/lonesomestranger/tcleaner/internal/config"
	"github.com/lonesomestranger/tcleaner/internal/logger"
)

// qrBundle groups the raw gotd pieces a QR login needs. gotgproto's own
// client is no use here: it insists on interactive phone auth.
type qrBundle struct {
	client     *telegram.Client
	dispatcher tg.UpdateDispatcher
	storage    *session.StorageMemory
}

func newQRBundle(cfg *config.Config) *qrBundle {
	memStorage := &session.StorageMemory{}
	dispatcher := tg.NewUpdateDispatcher()

	client := telegram.NewClient(cfg.TGApiID, cfg.TGApiHash, telegram.Options{
		SessionStorage: memStorage,
		UpdateHandler:  &dispatcher,
	})

	return &qrBundle{client: client, dispatcher: dispatcher, storage: memStorage}
}

// LoginQR runs the QR login flow and stores the captured session in the
// sqlite session database, where the regular client picks it up on the
// next run. onToken receives each login URL for rendering; Telegram
// rotates the token until one is scanned.
func LoginQR(ctx context.Context, cfg *config.Config, onToken func(url string)) error {
	log := logger.Get()
	bundle := newQRBundle(cfg)

	var data *session.Data
	err := bundle.client.Run(ctx, func(ctx context.Context) error {
		qr := bundle.client.QR()
		loggedIn := qrlogin.OnLoginToken(&bundle.dispatcher)

		if _, err := qr.Auth(ctx, loggedIn, func(_ context.Context, token qrlogin.Token) error {
			log.Info().Msg("telegram: QR token generated, scan it with a logged-in device")
			onToken(token.URL())
			return nil
		}); err != nil {
			return err
		}

		log.Info().Msg("telegram: QR auth succeeded, capturing session")
		loader := session.Loader{Storage: bundle.storage}
		var loadErr error
		data, loadErr = loader.Load(ctx)
		return loadErr
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("qr login: %w", err)
	}
	if data == nil {
		return fmt.Errorf("qr login: no session captured")
	}

	return saveSession(cfg.SessionDB, data)
}

// sessionRecord converts gotd session data into the row gotgproto
// expects in its sessions table: the raw JSON of session.Data.
func sessionRecord(data *session.Data) (*storage.Session, error) {
	if data == nil {
		return nil, fmt.Errorf("session data is nil")
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal session data: %w", err)
	}

	return &storage.Session{
		Version: storage.LatestVersion,
		Data:    raw,
	}, nil
}

// saveSession upserts the session row into the sqlite store. Version is
// the primary key and fixed, so Save overwrites any previous login.
func saveSession(path string, data *session.Data) error {
	sess, err := sessionRecord(data)
	if err != nil {
		return err
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("open session db %s: %w", path, err)
	}
	if err := db.AutoMigrate(&storage.Session{}); err != nil {
		return fmt.Errorf("prepare session db: %w", err)
	}
	if err := db.Save(sess).Error; err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
