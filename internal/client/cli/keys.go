package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/spillway/internal/client/services"
	"github.com/dmitrijs2005/spillway/internal/common"
	"github.com/dmitrijs2005/spillway/internal/cryptox"
)

func (a *App) KeyStats(ctx context.Context) error {
	st, err := a.Keys.Stats(ctx)
	if err != nil {
		return err
	}
	renderKeyStats(a.out, st)
	return nil
}

// ExportKeys writes every local key to path, or to the output stream when
// path is empty or "-". With sealed set the export is encrypted under a
// passphrase read from the terminal.
func (a *App) ExportKeys(ctx context.Context, path string, format services.ExportFormat, sealed bool) error {
	var (
		data []byte
		err  error
	)
	if sealed {
		pass, perr := a.newPassphrase()
		if perr != nil {
			return perr
		}
		defer common.WipeByteArray(pass)
		data, err = a.Keys.ExportSealed(ctx, pass)
	} else {
		data, err = a.Keys.ExportKeys(ctx, format)
	}
	if err != nil {
		return err
	}

	if path == "" || path == "-" {
		_, err = a.out.Write(data)
		if err == nil && len(data) > 0 && data[len(data)-1] != '\n' {
			_, err = fmt.Fprintln(a.out)
		}
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	success(a.out, "Keys exported to %s", path)
	return nil
}

// ImportKeys reads an export from path ("-" for the input stream). Sealed
// exports are detected and a passphrase is asked for.
func (a *App) ImportKeys(ctx context.Context, path string, merge bool) error {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(a.reader)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return err
	}
	defer common.WipeByteArray(data)

	var n int
	if cryptox.IsSealed(data) {
		pass, perr := getPassword("Export passphrase", a.out)
		if perr != nil {
			return perr
		}
		defer common.WipeByteArray(pass)
		n, err = a.Keys.ImportSealed(ctx, data, pass, merge)
	} else {
		n, err = a.Keys.ImportKeys(ctx, data, merge)
	}
	if err != nil {
		return err
	}
	success(a.out, "Imported %d key(s)", n)
	return nil
}

// BackupKeys uploads a sealed export to the configured bucket.
func (a *App) BackupKeys(ctx context.Context, object string) error {
	if a.Backup == nil {
		return services.ErrBackupNotConfigured
	}
	pass, err := a.newPassphrase()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pass)

	if err := a.Backup.Backup(ctx, object, pass); err != nil {
		return err
	}
	success(a.out, "Keys backed up")
	return nil
}

// RestoreKeys downloads a sealed export from the bucket and imports it.
func (a *App) RestoreKeys(ctx context.Context, object string, merge bool) error {
	if a.Backup == nil {
		return services.ErrBackupNotConfigured
	}
	pass, err := getPassword("Backup passphrase", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pass)

	n, err := a.Backup.Restore(ctx, object, pass, merge)
	if err != nil {
		return err
	}
	success(a.out, "Restored %d key(s)", n)
	return nil
}

func (a *App) newPassphrase() ([]byte, error) {
	pass, err := getPassword("New passphrase", a.out)
	if err != nil {
		return nil, err
	}
	again, err := getPassword("Repeat passphrase", a.out)
	if err != nil {
		common.WipeByteArray(pass)
		return nil, err
	}
	defer common.WipeByteArray(again)

	if len(pass) == 0 || string(pass) != string(again) {
		common.WipeByteArray(pass)
		return nil, fmt.Errorf("passphrases are empty or do not match")
	}
	return pass, nil
}
