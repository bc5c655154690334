package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"github.com/celestix/gotgproto"
	"github.com/celestix/gotgproto/sessionMaker"
	"github.com/gotd/td/session/tdesktop"
	"github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"

	"github.com/lonesomestranger/tcleaner/internal/prompt"
	"github.com/lonesomestranger/tcleaner/internal/telegram"
)

var authQR bool

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in to Telegram and print a session string",
	Long: `Sign in to the Telegram account and store the session. The
resulting session string can be put into TG_SESSION_STRING for
fully non-interactive runs.

Without flags an existing Telegram Desktop session is offered first,
falling back to phone number login. With --qr a QR code is shown
instead and scanned from a logged-in Telegram app.`,
	RunE: authHandler,
}

func authHandler(cmd *cobra.Command, args []string) error {
	prompts := prompt.New(os.Stdin, os.Stdout)
	if err := ensureCredentials(prompts); err != nil {
		return err
	}

	// a new login always goes to the session db, never the old string
	cfg.TGSessionStr = ""

	var client *gotgproto.Client
	var err error

	if authQR {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := telegram.LoginQR(ctx, cfg, printQR); err != nil {
			return err
		}
		// the stored session signs the regular client in without prompts
		client, err = telegram.NewProtoClient(cfg)
	} else {
		client, err = authInteractive(prompts)
	}
	if err != nil {
		return err
	}
	defer client.Stop()

	sessionString, err := client.ExportStringSession()
	if err != nil {
		return fmt.Errorf("export session: %w", err)
	}

	fmt.Println("\nSigned in as @" + client.Self.Username)
	fmt.Println("\nSession string for TG_SESSION_STRING:")
	fmt.Println("---")
	fmt.Println(sessionString)
	fmt.Println("---")
	fmt.Println("\nKeep it secret: it grants full access to the account.")
	return nil
}

// ensureCredentials fills missing api credentials from stdin.
func ensureCredentials(prompts *prompt.Prompt) error {
	if cfg.TGApiID == 0 {
		raw, err := prompts.Text("api_id (from https://my.telegram.org)")
		if err != nil {
			return err
		}
		id, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid api_id %q: %w", raw, err)
		}
		cfg.TGApiID = id
	}
	if cfg.TGApiHash == "" {
		hash, err := prompts.Text("api_hash")
		if err != nil {
			return err
		}
		cfg.TGApiHash = hash
	}
	return nil
}

// authInteractive tries a Telegram Desktop session first, then phone login.
func authInteractive(prompts *prompt.Prompt) (*gotgproto.Client, error) {
	accounts := detectTData(prompts)
	if len(accounts) > 0 {
		useTData, err := prompts.Confirm(fmt.Sprintf("Found %d Telegram Desktop session(s), use them", len(accounts)))
		if err != nil {
			return nil, err
		}
		if useTData {
			return authWithTData(prompts, accounts)
		}
	}
	return authWithPhone(prompts)
}

// detectTData looks for Telegram Desktop sessions in the default
// location, then in a path given by the operator.
func detectTData(prompts *prompt.Prompt) []tdesktop.Account {
	path := telegramDesktopPath()
	accounts, err := tdesktop.Read(path, nil)
	if err == nil && len(accounts) > 0 {
		return accounts
	}

	custom, err := prompts.Text("Telegram Desktop path (empty to skip)")
	if err != nil || custom == "" {
		return nil
	}
	if !strings.HasSuffix(custom, "tdata") {
		custom = filepath.Join(custom, "tdata")
	}
	accounts, err = tdesktop.Read(custom, nil)
	if err != nil {
		return nil
	}
	return accounts
}

func telegramDesktopPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Telegram Desktop", "tdata")
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Telegram Desktop", "tdata")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "TelegramDesktop", "tdata")
	}
}

func authWithTData(prompts *prompt.Prompt, accounts []tdesktop.Account) (*gotgproto.Client, error) {
	idx := 0
	if len(accounts) > 1 {
		labels := make([]string, len(accounts))
		for i := range accounts {
			labels[i] = fmt.Sprintf("account #%d", i+1)
		}
		var err error
		idx, err = prompts.Choice("Which Telegram Desktop account?", labels)
		if err != nil {
			return nil, err
		}
	}

	fmt.Println("\nImporting the Telegram Desktop session...")
	return gotgproto.NewClient(
		cfg.TGApiID,
		cfg.TGApiHash,
		gotgproto.ClientTypePhone(""),
		&gotgproto.ClientOpts{
			Session:          sessionMaker.TdataSession(accounts[idx]).Name("tdata_session"),
			DisableCopyright: true,
		},
	)
}

func authWithPhone(prompts *prompt.Prompt) (*gotgproto.Client, error) {
	if cfg.TGPhone == "" {
		phone, err := prompts.Text("phone number with country code (e.g. +31612345678)")
		if err != nil {
			return nil, err
		}
		cfg.TGPhone = phone
	}

	fmt.Println("\nSigning in, check Telegram for the login code...")
	return telegram.NewProtoClient(cfg)
}

func printQR(url string) {
	fmt.Println("\nScan with a logged-in Telegram app")
	fmt.Println("(Settings > Devices > Link Desktop Device):")
	fmt.Println()
	qrterminal.GenerateHalfBlock(url, qrterminal.L, os.Stdout)
	fmt.Println()
}

func init() {
	authCmd.Flags().BoolVar(&authQR, "qr", false, "log in by scanning a QR code instead of phone/code")
}
