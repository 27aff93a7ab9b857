// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package prefs

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/qrclip/lib/clock"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// openTest opens a store in a fresh temporary directory on a fake
// clock. The preferences file lives in a subdirectory that does not
// exist yet, so saves also exercise directory creation.
func openTest(t *testing.T) (*Handle, *clock.FakeClock, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config", FileName)
	fakeClock := clock.Fake(epoch)
	handle := Open(Options{Path: path, Clock: fakeClock})
	t.Cleanup(handle.Close)
	return handle, fakeClock, path
}

// readFile returns the saved map, or nil if the file does not exist.
func readFile(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		t.Fatalf("parsing %s: %v", path, err)
	}
	return values
}

func TestGetSet(t *testing.T) {
	handle, _, _ := openTest(t)

	if _, ok := handle.Get("missing"); ok {
		t.Fatal("Get on an empty store reported a value")
	}
	handle.Set("name", "value")
	if value, ok := handle.Get("name"); !ok || value != "value" {
		t.Fatalf("Get = (%v, %v), want (value, true)", value, ok)
	}
	handle.Set("name", nil)
	if _, ok := handle.Get("name"); ok {
		t.Fatal("Set(nil) did not delete the key")
	}
}

func TestQuietBurstSavesOnceAfterMinDelay(t *testing.T) {
	handle, fakeClock, path := openTest(t)

	// Mutations at t=0, 100, 200 ms.
	handle.Set("counter", 0.0)
	fakeClock.Advance(100 * time.Millisecond)
	handle.Set("counter", 1.0)
	fakeClock.Advance(100 * time.Millisecond)
	handle.Set("counter", 2.0)

	// t=699: still inside the min delay of the last mutation.
	fakeClock.Advance(499 * time.Millisecond)
	if values := readFile(t, path); values != nil {
		t.Fatalf("saved before min delay elapsed: %v", values)
	}

	// t=700 = 200 + MinSaveDelay.
	fakeClock.Advance(time.Millisecond)
	values := readFile(t, path)
	if values == nil || values["counter"] != 2.0 {
		t.Fatalf("after min delay: file = %v, want counter=2", values)
	}
	if handle.SavePending() {
		t.Fatal("save still pending after it was written")
	}

	// No further saves: remove the file and run past the max delay.
	os.Remove(path)
	fakeClock.Advance(10 * time.Second)
	if values := readFile(t, path); values != nil {
		t.Fatalf("unexpected second save: %v", values)
	}
	if fakeClock.PendingCount() != 0 {
		t.Fatalf("%d timers still armed after save", fakeClock.PendingCount())
	}
}

func TestContinuousBurstSavesAtMaxDelay(t *testing.T) {
	handle, fakeClock, path := openTest(t)

	var saves []map[string]any
	var saveTimes []time.Duration
	elapsed := time.Duration(0)
	step := 100 * time.Millisecond

	// One mutation every 100 ms from t=0 through t=6000.
	for counter := 0; elapsed <= 6*time.Second; counter++ {
		handle.Set("counter", float64(counter))
		fakeClock.Advance(step)
		elapsed += step
		if values := readFile(t, path); values != nil {
			saves = append(saves, values)
			saveTimes = append(saveTimes, elapsed)
			os.Remove(path)
		}
	}

	if len(saves) != 1 {
		t.Fatalf("saves during burst = %d at %v, want exactly 1", len(saves), saveTimes)
	}
	if saveTimes[0] != MaxSaveDelay {
		t.Fatalf("first save at %v, want %v", saveTimes[0], MaxSaveDelay)
	}
	// The mutation at t=4900 is the last one before the max timer fires.
	if saves[0]["counter"] != 49.0 {
		t.Fatalf("first save counter = %v, want 49", saves[0]["counter"])
	}

	// The burst ended with the mutation at t=6000; the restarted
	// window saves it once the min delay passes.
	fakeClock.Advance(MinSaveDelay)
	values := readFile(t, path)
	if values == nil || values["counter"] != 60.0 {
		t.Fatalf("final save = %v, want counter=60", values)
	}
}

func TestMaxDelayNotRestartedByMutations(t *testing.T) {
	handle, fakeClock, path := openTest(t)

	// Mutations every 400 ms keep pushing the min timer back, from
	// t=0 through t=5200.
	for counter := range 14 {
		handle.Set("counter", float64(counter))
		fakeClock.Advance(400 * time.Millisecond)
		if fakeClock.Now().Sub(epoch) < MaxSaveDelay && readFile(t, path) != nil {
			t.Fatalf("saved at %v, before the max delay", fakeClock.Now().Sub(epoch))
		}
	}
	if readFile(t, path) == nil {
		t.Fatal("max delay passed without a save")
	}
}

func TestNoOpWritesDoNotSchedule(t *testing.T) {
	handle, fakeClock, path := openTest(t)

	handle.Set("alwaysOnTop", true)
	fakeClock.Advance(MinSaveDelay)
	os.Remove(path)

	handle.Set("alwaysOnTop", true)
	handle.Delete("never-set")
	handle.Set("also-never-set", nil)
	if handle.SavePending() {
		t.Fatal("no-op mutations scheduled a save")
	}
	fakeClock.Advance(MaxSaveDelay)
	if readFile(t, path) != nil {
		t.Fatal("no-op mutations produced a save")
	}
}

func TestNumbersCompareAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(`{"scale": 1}`), 0o600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	fakeClock := clock.Fake(epoch)
	handle := Open(Options{Path: path, Clock: fakeClock})
	t.Cleanup(handle.Close)

	handle.Set("scale", 1)
	handle.Set("scale", uint8(1))
	handle.Set("scale", float32(1))
	if handle.SavePending() {
		t.Fatal("setting an equal number after a reload scheduled a save")
	}

	handle.Set("scale", int64(3))
	if !handle.SavePending() {
		t.Fatal("setting a different number did not schedule a save")
	}
	if value, _ := handle.Get("scale"); value != float64(3) {
		t.Fatalf("Get = %#v, want float64(3)", value)
	}
}

func TestDeleteSchedulesSave(t *testing.T) {
	handle, fakeClock, path := openTest(t)

	handle.Set("a", "1")
	handle.Set("b", "2")
	fakeClock.Advance(MinSaveDelay)

	handle.Delete("a")
	if !handle.SavePending() {
		t.Fatal("Delete of a present key did not schedule a save")
	}
	fakeClock.Advance(MinSaveDelay)
	values := readFile(t, path)
	if _, ok := values["a"]; ok || values["b"] != "2" {
		t.Fatalf("saved %v, want only b", values)
	}
}

func TestRoundTripAlwaysOnTop(t *testing.T) {
	handle, fakeClock, path := openTest(t)

	if handle.AlwaysOnTop() {
		t.Fatal("alwaysOnTop defaults to true")
	}
	handle.SetAlwaysOnTop(true)
	fakeClock.Advance(MinSaveDelay)

	reloaded := Open(Options{Path: path, Clock: fakeClock})
	defer reloaded.Close()
	if !reloaded.AlwaysOnTop() {
		t.Fatal("alwaysOnTop did not survive a reload")
	}
	if value, _ := reloaded.Get(AlwaysOnTopKey); value != true {
		t.Fatalf("Get(alwaysOnTop) = %v, want true", value)
	}
}

func TestGeometryRoundTripsBytes(t *testing.T) {
	handle, fakeClock, path := openTest(t)

	blob := []byte{0x00, 0x01, 0xfe, 0xff, 'q', 'r'}
	handle.SetGeometry(blob)
	if got := handle.String(GeometryKey); got != "0001feff7172" {
		t.Fatalf("stored geometry = %q, want lowercase hex", got)
	}
	fakeClock.Advance(MinSaveDelay)

	reloaded := Open(Options{Path: path, Clock: fakeClock})
	defer reloaded.Close()
	if got := reloaded.Geometry(); !bytes.Equal(got, blob) {
		t.Fatalf("Geometry() = %x, want %x", got, blob)
	}
}

func TestMalformedGeometryReadsAsNil(t *testing.T) {
	handle, _, _ := openTest(t)
	handle.Set(GeometryKey, "not hex")
	if handle.Geometry() != nil {
		t.Fatal("malformed geometry decoded to bytes")
	}
	handle.Set(GeometryKey, true)
	if handle.Geometry() != nil {
		t.Fatal("non-string geometry decoded to bytes")
	}
}

func TestCloneSharesStorage(t *testing.T) {
	handle, fakeClock, path := openTest(t)
	clone := handle.Clone()

	clone.Set("shared", "yes")
	if handle.String("shared") != "yes" {
		t.Fatal("mutation through a clone is not visible through the original")
	}

	// Closing one handle does not flush; the store is still in use.
	clone.Close()
	if readFile(t, path) != nil {
		t.Fatal("closing a non-final handle flushed")
	}
	if !handle.SavePending() {
		t.Fatal("closing a non-final handle cancelled the pending save")
	}
	fakeClock.Advance(MinSaveDelay)
	if readFile(t, path)["shared"] != "yes" {
		t.Fatal("save after clone close lost the mutation")
	}
}

func TestLastCloseFlushesPendingSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	fakeClock := clock.Fake(epoch)
	handle := Open(Options{Path: path, Clock: fakeClock})
	clone := handle.Clone()

	handle.Set("pending", "value")
	handle.Close()
	handle.Close() // second close of the same handle is a no-op
	if readFile(t, path) != nil {
		t.Fatal("store flushed while a handle was still open")
	}

	clone.Close()
	if readFile(t, path)["pending"] != "value" {
		t.Fatal("last Close did not flush the pending save")
	}
	if fakeClock.PendingCount() != 0 {
		t.Fatalf("%d timers armed after last Close", fakeClock.PendingCount())
	}
}

func TestLoadToleratesCommentsAndTrailingCommas(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := `{
    // edited by hand
    "alwaysOnTop": true,
    "geometry": "abcd", /* trailing comma below */
}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	handle := Open(Options{Path: path, Clock: clock.Fake(epoch)})
	defer handle.Close()
	if !handle.AlwaysOnTop() || handle.String(GeometryKey) != "abcd" {
		t.Fatalf("loaded keys %v, want alwaysOnTop and geometry", handle.Keys())
	}
}

func TestLoadFailureIsNotFatal(t *testing.T) {
	tests := []struct {
		name    string
		content string
		warning string
	}{
		{"garbage", "this is not json", "parsing preferences failed"},
		{"array", `["a", "b"]`, "parsing preferences failed"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			if err := os.WriteFile(path, []byte(test.content), 0o600); err != nil {
				t.Fatal(err)
			}
			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, nil))

			handle := Open(Options{Path: path, Clock: clock.Fake(epoch), Logger: logger})
			defer handle.Close()
			if keys := handle.Keys(); len(keys) != 0 {
				t.Fatalf("keys after failed load = %v, want none", keys)
			}
			if !strings.Contains(logs.String(), test.warning) {
				t.Fatalf("log output %q does not mention %q", logs.String(), test.warning)
			}
			// The store still works.
			handle.Set("after", "failure")
			if handle.String("after") != "failure" {
				t.Fatal("store unusable after a failed load")
			}
		})
	}
}

func TestSaveFailureIsLogged(t *testing.T) {
	// A regular file where the config directory should be makes both
	// MkdirAll and the write fail.
	root := t.TempDir()
	blocker := filepath.Join(root, "blocker")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	var logs bytes.Buffer
	fakeClock := clock.Fake(epoch)
	handle := Open(Options{
		Path:   filepath.Join(blocker, FileName),
		Clock:  fakeClock,
		Logger: slog.New(slog.NewTextHandler(&logs, nil)),
	})
	defer handle.Close()

	handle.Set("key", "value")
	fakeClock.Advance(MinSaveDelay)

	if !strings.Contains(logs.String(), "saving preferences failed") {
		t.Fatalf("log output %q does not report the failed save", logs.String())
	}
	if handle.String("key") != "value" {
		t.Fatal("in-memory value lost after a failed save")
	}
	if handle.SavePending() {
		t.Fatal("failed save left the timers armed")
	}
}

func TestUnknownKeysPreserved(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(`{"future":"keep me"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	fakeClock := clock.Fake(epoch)
	handle := Open(Options{Path: path, Clock: fakeClock})
	handle.SetAlwaysOnTop(true)
	handle.Close()

	values := readFile(t, path)
	if values["future"] != "keep me" || values[AlwaysOnTopKey] != true {
		t.Fatalf("saved %v, want both keys", values)
	}
}

func TestCustomDelays(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	fakeClock := clock.Fake(epoch)
	handle := Open(Options{
		Path:         path,
		Clock:        fakeClock,
		MinSaveDelay: time.Second,
		MaxSaveDelay: 2 * time.Second,
	})
	defer handle.Close()

	handle.Set("key", "value")
	fakeClock.Advance(MinSaveDelay)
	if readFile(t, path) != nil {
		t.Fatal("saved at the default min delay instead of the configured one")
	}
	fakeClock.Advance(time.Second - MinSaveDelay)
	if readFile(t, path) == nil {
		t.Fatal("no save at the configured min delay")
	}
}
