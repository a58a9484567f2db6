package mail

import (
	"bufio"
	"bytes"
	"context"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRaw(t *testing.T) {
	t.Parallel()

	cfg := Config{From: "no-reply@tenders.local", FromName: "Tender Portal"}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	raw := string(buildRaw(cfg, Message{
		To:      "a@b.com",
		Subject: "Confirm\r\nBcc: evil@x.com",
		Body:    "line1\nline2",
	}, now))

	assert.True(t, strings.HasPrefix(raw, "From: Tender Portal <no-reply@tenders.local>\r\n"))
	assert.Contains(t, raw, "To: a@b.com\r\n")
	assert.Contains(t, raw, "Subject: Confirm  Bcc: evil@x.com\r\n")
	assert.NotContains(t, raw, "\r\nBcc:")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\nline1\r\nline2"))
}

func TestLogSender(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sender := NewLogSender(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, sender.Send(context.Background(), Message{To: "a@b.com", Subject: "hi", Body: "token"}))
	assert.Contains(t, buf.String(), "to=a@b.com")
	assert.Contains(t, buf.String(), "subject=hi")
}

func TestNew_SelectsSender(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	_, isLog := New(Config{}, log).(*LogSender)
	assert.True(t, isLog)

	_, isSMTP := New(Config{Host: "smtp.example.com", Port: "587"}, log).(*SMTPSender)
	assert.True(t, isSMTP)
}

func listen(t *testing.T) (net.Listener, Config) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	return ln, Config{Host: host, Port: port, From: "no-reply@tenders.local"}
}

// acceptSilently accepts connections and never writes to them.
func acceptSilently(ln net.Listener) {
	var conns []net.Conn
	defer func() {
		for _, c := range conns {
			_ = c.Close()
		}
	}()
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		conns = append(conns, conn)
	}
}

func TestSMTPSender_SilentServerRespectsDeadline(t *testing.T) {
	t.Parallel()

	ln, cfg := listen(t)
	go acceptSilently(ln)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := NewSMTPSender(cfg).Send(ctx, Message{To: "a@b.com", Subject: "hi", Body: "x"})

	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestSMTPSender_SenderTimeout(t *testing.T) {
	t.Parallel()

	ln, cfg := listen(t)
	go acceptSilently(ln)

	sender := NewSMTPSender(cfg)
	sender.timeout = 200 * time.Millisecond

	start := time.Now()
	err := sender.Send(context.Background(), Message{To: "a@b.com", Subject: "hi", Body: "x"})

	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

// serveSMTP answers one plain SMTP session and returns the received DATA.
func serveSMTP(ln net.Listener, data chan<- string) {
	conn, err := ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	r := bufio.NewReader(conn)
	reply := func(line string) { _, _ = conn.Write([]byte(line + "\r\n")) }
	reply("220 localhost ESMTP")
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.ToUpper(strings.TrimSpace(line))
		switch {
		case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
			reply("250 localhost")
		case strings.HasPrefix(cmd, "DATA"):
			reply("354 go ahead")
			var b strings.Builder
			for {
				l, err := r.ReadString('\n')
				if err != nil {
					return
				}
				if l == ".\r\n" {
					break
				}
				b.WriteString(l)
			}
			data <- b.String()
			reply("250 queued")
		case strings.HasPrefix(cmd, "QUIT"):
			reply("221 bye")
			return
		default:
			reply("250 ok")
		}
	}
}

func TestSMTPSender_Delivers(t *testing.T) {
	t.Parallel()

	ln, cfg := listen(t)
	data := make(chan string, 1)
	go serveSMTP(ln, data)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := NewSMTPSender(cfg).Send(ctx, Message{To: "a@b.com", Subject: "Confirm", Body: "token"})

	require.NoError(t, err)
	got := <-data
	assert.Contains(t, got, "Subject: Confirm\r\n")
	assert.True(t, strings.HasSuffix(got, "\r\ntoken\r\n"))
}
