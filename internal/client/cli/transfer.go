package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/dailyjournal/internal/filex"
	"github.com/dmitrijs2005/dailyjournal/internal/netx"
)

// Export writes every entry as a JSON array to the given file, or prints it
// when no file is given.
func (a *App) Export(ctx context.Context, args []string) error {
	data, err := a.api.Export(ctx)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		a.println(string(data))
		return nil
	}
	if err := filex.WriteFile(args[0], data); err != nil {
		return err
	}
	var entries []json.RawMessage
	_ = json.Unmarshal(data, &entries)
	a.printf("Exported %d entries to %s\n", len(entries), args[0])
	return nil
}

// Import uploads a file produced by Export (or {"entries": [...]}). The
// server accepts or rejects the whole file.
func (a *App) Import(ctx context.Context, args []string) error {
	path, err := singleArg(args)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if !json.Valid(data) {
		return fmt.Errorf("%s is not valid JSON", path)
	}

	res, err := a.api.Import(ctx, data)
	if err != nil {
		return err
	}
	a.printf("Imported %d entries\n", res.InsertedCount)
	return nil
}

// Archive stores an export snapshot on the server's object storage and
// prints its temporary download link. With a file argument the snapshot is
// also downloaded there.
func (a *App) Archive(ctx context.Context, args []string) error {
	res, err := a.api.ArchiveExport(ctx)
	if err != nil {
		return err
	}
	a.printf("Archived as %s\nDownload link (valid for a limited time):\n%s\n", res.Key, res.URL)

	if len(args) == 0 {
		return nil
	}
	data, err := netx.Download(ctx, a.http, res.URL)
	if err != nil {
		return err
	}
	if err := filex.WriteFile(args[0], data); err != nil {
		return err
	}
	a.println("Saved archive to", args[0])
	return nil
}
