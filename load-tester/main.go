package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

// ticksPerSecond splits each second of load into smaller dispatch rounds.
const ticksPerSecond = 10

type options struct {
	endpoint      string
	total         int
	rate          int
	workers       int
	resendPercent int
	seed          int64
}

func parseOptions() options {
	var o options
	flag.StringVar(&o.endpoint, "endpoint", "", "Record ingestion URL, e.g. http://localhost:8080/api/v2/records (required)")
	flag.IntVar(&o.total, "total", 10000, "Number of records to post")
	flag.IntVar(&o.rate, "rate", 1000, "Records per second")
	flag.IntVar(&o.workers, "workers", 0, "Concurrent senders (0 derives it from -rate)")
	flag.IntVar(&o.resendPercent, "resend-percent", 0, "Share of posts that update an already sent record_id")
	flag.Int64Var(&o.seed, "seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	if o.endpoint == "" {
		fmt.Fprintln(os.Stderr, "-endpoint is required")
		flag.Usage()
		os.Exit(2)
	}
	if o.rate < ticksPerSecond {
		o.rate = ticksPerSecond
	}
	if o.workers <= 0 {
		o.workers = max(o.rate/25, 16)
	}
	o.resendPercent = min(max(o.resendPercent, 0), 100)
	return o
}

// counters are updated by every sender and read by the reporter.
type counters struct {
	accepted  atomic.Uint64
	rejected  atomic.Uint64
	failed    atomic.Uint64
	latencyUs atomic.Int64
	maxUs     atomic.Int64
}

func (c *counters) observe(status int, err error, took time.Duration) {
	switch {
	case err != nil || status >= http.StatusInternalServerError:
		c.failed.Add(1)
		return
	case status >= http.StatusBadRequest:
		c.rejected.Add(1)
		return
	}
	c.accepted.Add(1)
	us := took.Microseconds()
	c.latencyUs.Add(us)
	for {
		cur := c.maxUs.Load()
		if us <= cur || c.maxUs.CompareAndSwap(cur, us) {
			return
		}
	}
}

func (c *counters) report(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var prev uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			accepted := c.accepted.Load()
			log.Printf("accepted/s=%d accepted=%d rejected=%d failed=%d avg=%s",
				accepted-prev, accepted, c.rejected.Load(), c.failed.Load(), c.average())
			prev = accepted
		}
	}
}

func (c *counters) average() time.Duration {
	n := c.accepted.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(c.latencyUs.Load()/int64(n)) * time.Microsecond
}

func main() {
	opts := parseOptions()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        opts.workers,
			MaxIdleConnsPerHost: opts.workers,
			IdleConnTimeout:     90 * time.Second,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
	}

	stats := &counters{}
	reportCtx, stopReport := context.WithCancel(ctx)
	go stats.report(reportCtx)

	log.Printf("posting %d incident records to %s at %d/s with %d workers (resend %d%%)",
		opts.total, opts.endpoint, opts.rate, opts.workers, opts.resendPercent)

	payloads := make(chan []byte, opts.workers*2)
	var wg sync.WaitGroup
	for range opts.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for body := range payloads {
				start := time.Now()
				status, err := post(ctx, client, opts.endpoint, body)
				stats.observe(status, err, time.Since(start))
			}
		}()
	}

	gen := newGenerator(opts.seed, opts.resendPercent)
	dispatch(ctx, gen, payloads, opts.total, opts.rate)
	close(payloads)
	wg.Wait()
	stopReport()

	log.Printf("done: accepted=%d rejected=%d failed=%d avg=%s max=%s",
		stats.accepted.Load(), stats.rejected.Load(), stats.failed.Load(),
		stats.average(), time.Duration(stats.maxUs.Load())*time.Microsecond)
}

// dispatch feeds payloads in rate/ticksPerSecond rounds until total is reached
// or ctx is cancelled.
func dispatch(ctx context.Context, gen *generator, out chan<- []byte, total, rate int) {
	perTick := rate / ticksPerSecond
	ticker := time.NewTicker(time.Second / ticksPerSecond)
	defer ticker.Stop()

	for sent := 0; sent < total; {
		n := min(perTick, total-sent)
		for range n {
			body, err := json.Marshal(gen.next())
			if err != nil {
				log.Printf("encode record: %v", err)
				continue
			}
			select {
			case out <- body:
			case <-ctx.Done():
				return
			}
		}
		sent += n

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

func post(ctx context.Context, client *http.Client, url string, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
