// Command veilcore-verify decodes a single wire instruction record from
// stdin (or a file) and runs it against a fresh in-memory ledger, reporting
// whether it would be accepted. It exists for offline testing of wire
// records produced by a client, not as the production host integration
// (a host wires package instructions' Dispatch against its own persistent
// Ledger implementation instead of cmd/veilcore-verify's MemStore).
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/veilpay/veil-core/config"
	"github.com/veilpay/veil-core/coreerr"
	"github.com/veilpay/veil-core/corelog"
	"github.com/veilpay/veil-core/instructions"
	"github.com/veilpay/veil-core/sigma"
)

func main() {
	recordFlag := flag.String("record", "", "path to a wire instruction record (defaults to stdin)")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}
	corelog.Init(cfg.Log.Level, os.Stderr)

	var in io.Reader = os.Stdin
	if *recordFlag != "" {
		f, err := os.Open(*recordFlag)
		if err != nil {
			corelog.Errorf("opening record file: %v", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	record, err := io.ReadAll(in)
	if err != nil {
		corelog.Errorf("reading record: %v", err)
		os.Exit(1)
	}

	store := instructions.NewMemStore()
	store.State().EpochLength = uint64(cfg.Ledger.EpochLength / time.Second)
	var caller [32]byte
	var programID []byte

	now := cfg.ClockOverride
	if now == 0 {
		now = uint64(time.Now().Unix())
	}
	if err := instructions.Dispatch(store, record, caller, programID, now, sigma.TransferProof{}); err != nil {
		kind, _ := coreerr.KindOf(err)
		corelog.Errorf("instruction rejected: %v (kind=%v)", err, kind)
		os.Exit(1)
	}

	corelog.Info("instruction accepted")
}
