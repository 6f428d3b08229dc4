package system

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/julianstephens/planner/internal/cli"
)

type DebugCmd struct {
	DBPath DebugDBPathCmd `cmd:"" name:"db-path" help:"Show database path."`
	Keys   DebugKeysCmd   `cmd:"" help:"List stored keys with their sizes."`
	Dump   DebugDumpCmd   `cmd:"" help:"Dump the raw JSON stored under a key."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	// machine-readable
	out, err := json.MarshalIndent(map[string]string{
		"path":      ctx.KV.GetConfigPath(),
		"configDir": ctx.ConfigDir,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

type DebugKeysCmd struct{}

func (cmd *DebugKeysCmd) Run(ctx *cli.Context) error {
	keys, err := ctx.KV.Keys()
	if err != nil {
		return err
	}
	sort.Strings(keys)
	for _, key := range keys {
		value, err := ctx.Store.ReadRaw(key)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		fmt.Printf("%-24s %6d bytes\n", key, len(value))
	}
	return nil
}

type DebugDumpCmd struct {
	Key string `arg:"" help:"Store key, e.g. goals or settings."`
}

func (cmd *DebugDumpCmd) Run(ctx *cli.Context) error {
	raw, err := ctx.Store.ReadRaw(cmd.Key)
	if err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("nothing stored under %q", cmd.Key)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return fmt.Errorf("value under %q is not valid JSON: %w", cmd.Key, err)
	}
	fmt.Println(out.String())
	return nil
}
