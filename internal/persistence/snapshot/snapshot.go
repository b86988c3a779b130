// Package snapshot persists full game state as a one-line JSON header
// followed by a gob payload, zstd-compressed. The header is readable with
// zstdcat|head for quick inspection without decoding the payload.
package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"gridciv.ai/internal/sim/game"
)

type Header struct {
	Version int    `json:"version"`
	GameID  string `json:"game_id"`
	Turn    int    `json:"turn"`
}

type SnapshotV1 struct {
	Header Header `json:"header"`

	// Digest of the state at capture time, rechecked on load.
	Digest string `json:"digest"`

	State *game.State `json:"state"`
}

func New(gameID string, g *game.Game) SnapshotV1 {
	return SnapshotV1{
		Header: Header{Version: 1, GameID: gameID, Turn: g.Turn()},
		Digest: g.StateDigest(),
		State:  g.Export(),
	}
}

func WriteSnapshot(path string, snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 256*1024)
	defer bw.Flush()

	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	return nil
}

func ReadSnapshot(path string) (SnapshotV1, error) {
	var snap SnapshotV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// Read header line (ignore it for now, gob also contains header).
	_, _ = br.ReadBytes('\n')

	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	return snap, nil
}
