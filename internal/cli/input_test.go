package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("hello world\n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetPassword_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	var out bytes.Buffer
	_, err := GetPassword(&out)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	var out bytes.Buffer
	app := NewApp(&out)
	err := app.Run(context.Background(), []string{"frobnicate"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(out.String(), "usage:") {
		t.Fatalf("usage not printed, got %q", out.String())
	}
}

func TestRun_MissingCommand(t *testing.T) {
	var out bytes.Buffer
	app := NewApp(&out)
	if err := app.Run(context.Background(), nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestRunScan_RequiresDir(t *testing.T) {
	var out bytes.Buffer
	app := NewApp(&out)
	err := app.Run(context.Background(), []string{"scan"})
	if err == nil || !strings.Contains(err.Error(), "-dir") {
		t.Fatalf("want -dir error, got %v", err)
	}
}
