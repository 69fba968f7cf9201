package main

import (
	"bufio"
	"encoding/json"
	goflag "flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	hitproxy "github.com/Tap30/hitproxy-go"
	"github.com/Tap30/hitproxy-go/adapters"
)

// replayLine is one JSON line of input: tracker state to set, a campaign
// URL for the next hit, and/or a hit to send.
type replayLine struct {
	Set      map[string]string `json:"set"`
	Campaign string            `json:"campaign"`
	Hit      map[string]string `json:"hit"`
}

type options struct {
	input          string
	collect        string
	secure         bool
	endpoint       string
	apiKey         string
	mode           string
	allowed        []string
	policy         string
	expressions    map[string]string
	storage        string
	storageMax     int
	batchSize      int
	flushInterval  time.Duration
	useKlog        bool
	debugVerbosity int
}

func (o *options) addFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.input, "input", "i", "-", "JSON-lines file of {\"set\":{...}} and {\"hit\":{...}} records, - for stdin")
	fs.StringVar(&o.collect, "collect", "http://localhost:3000/collect", "Measurement Protocol collect URL")
	fs.BoolVar(&o.secure, "secure", false, "force https for the collect URL")
	fs.StringVar(&o.endpoint, "endpoint", "http://localhost:3000/events", "custom event upload URL")
	fs.StringVar(&o.apiKey, "api-key", "test-api-key", "API key sent with uploads")
	fs.StringVar(&o.mode, "mode", hitproxy.ModeSDKAndProxy.String(), "sdk_and_proxy, sdk_only or proxy_only")
	fs.StringSliceVar(&o.allowed, "allow", nil, "hit types to proxy (default all)")
	fs.StringVar(&o.policy, "hit-fields", hitproxy.HitFieldsByType.String(), "by_type, by_type_or_all or all")
	fs.StringToStringVar(&o.expressions, "expr", nil, "property=expression pairs evaluated per event")
	fs.StringVar(&o.storage, "storage", "hitproxy_events.json", "file persisting undelivered events, empty to disable")
	fs.IntVar(&o.storageMax, "storage-max", 1000, "most events kept in the storage file, 0 for no cap")
	fs.IntVar(&o.batchSize, "batch-size", 5, "events per upload")
	fs.DurationVar(&o.flushInterval, "flush-interval", 5*time.Second, "upload interval")
	fs.BoolVar(&o.useKlog, "klog", false, "log through klog instead of the standard logger")
	fs.IntVar(&o.debugVerbosity, "debug-v", 4, "klog verbosity for debug messages")
}

func main() {
	opts := &options{}
	opts.addFlags(pflag.CommandLine)
	klog.InitFlags(goflag.CommandLine)
	pflag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	pflag.Parse()
	defer klog.Flush()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts *options) error {
	var logger hitproxy.LoggerAdapter = adapters.NewPrintLoggerAdapter(adapters.LogLevelDebug)
	if opts.useKlog {
		logger = adapters.NewKlogLoggerAdapter(klog.Level(opts.debugVerbosity))
	}

	mode, err := hitproxy.ParseMode(opts.mode)
	if err != nil {
		return err
	}
	policy, err := hitproxy.ParseHitFieldPolicy(opts.policy)
	if err != nil {
		return err
	}

	sinkConfig := hitproxy.BatchSinkConfig{
		APIKey:        opts.apiKey,
		Endpoint:      opts.endpoint,
		FlushInterval: opts.flushInterval,
		MaxBatchSize:  opts.batchSize,
		LoggerAdapter: logger,
	}
	if opts.storage != "" {
		storage := adapters.NewFileStorageAdapter(opts.storage)
		storage.SetMaxEvents(opts.storageMax)
		sinkConfig.StorageAdapter = storage
	}
	sink, err := hitproxy.NewBatchSink(sinkConfig)
	if err != nil {
		return err
	}
	if err := sink.Start(); err != nil {
		return err
	}
	defer sink.Stop()

	var extenders []hitproxy.Extender
	if len(opts.expressions) > 0 {
		ext, err := hitproxy.NewExpressionExtender(opts.expressions, "", logger)
		if err != nil {
			return err
		}
		extenders = append(extenders, ext)
	}

	tracker, err := adapters.NewMeasurementTrackerAdapter(opts.collect, logger)
	if err != nil {
		return err
	}
	if opts.secure {
		tracker.SetUseSecure(true)
	}

	reg := prometheus.NewRegistry()
	proxy, err := hitproxy.NewProxy(hitproxy.Config{
		Mode:              mode,
		AllowedHitTypes:   opts.allowed,
		HitFieldPolicy:    policy,
		Extenders:         extenders,
		TrackerAdapter:    tracker,
		SinkAdapter:       sink,
		LoggerAdapter:     logger,
		MetricsRegisterer: reg,
	})
	if err != nil {
		return err
	}

	in := io.Reader(os.Stdin)
	if opts.input != "-" {
		f, err := os.Open(opts.input)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	if err := replay(proxy, in); err != nil {
		return err
	}
	sink.Flush()
	return printCounts(reg)
}

func replay(proxy *hitproxy.Proxy, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for n := 1; scanner.Scan(); n++ {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var line replayLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		for k, v := range line.Set {
			proxy.Set(k, v)
		}
		if line.Campaign != "" {
			if err := proxy.SetCampaignParamsOnNextHit(line.Campaign); err != nil {
				return fmt.Errorf("line %d: %w", n, err)
			}
		}
		if line.Hit != nil {
			if err := proxy.Send(line.Hit); err != nil {
				fmt.Fprintf(os.Stderr, "line %d: %v\n", n, err)
			}
		}
	}
	return scanner.Err()
}

func printCounts(reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				fmt.Printf("%s{%s=%q} %v\n", mf.GetName(), l.GetName(), l.GetValue(), m.GetCounter().GetValue())
			}
		}
	}
	return nil
}
