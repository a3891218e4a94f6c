package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"candleforge/internal/domain"
	"candleforge/internal/exchange"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerResources(server *mcp.Server, market SeriesProvider, archive BarArchiveReader) {
	server.AddResource(&mcp.Resource{
		URI:         "market://supported-timeframes",
		Name:        "supported-timeframes",
		Description: "List of bar durations supported by the service",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		_ = ctx
		return jsonResource(req.Params.URI, domain.SupportedTimeframes)
	})

	server.AddResource(&mcp.Resource{
		URI:         "market://supported-exchanges",
		Name:        "supported-exchanges",
		Description: "Allow-listed exchange identifiers the service can be configured with",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		_ = ctx
		return jsonResource(req.Params.URI, exchange.Supported)
	})

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "ohlcv://{pair}/{timeframe}{?limit}",
		Name:        "ohlcv-series",
		Description: "Columnar OHLCV series for a dash-separated pair (e.g. BTC-USDT) and timeframe; optional limit query param",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if market == nil {
			return nil, fmt.Errorf("market service unavailable")
		}

		symbol, timeframe, limit, err := parseBarURI(req.Params.URI, "ohlcv")
		if err != nil {
			return nil, err
		}
		series, err := market.GetSeries(ctx, symbol, timeframe, limit)
		if err != nil {
			return nil, err
		}
		return jsonResource(req.Params.URI, series)
	})

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "archive://{pair}/{timeframe}{?limit}",
		Name:        "archived-bars",
		Description: "Previously archived bars for a dash-separated pair and timeframe, newest first; optional limit query param",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if archive == nil {
			return nil, fmt.Errorf("bar archive unavailable")
		}

		symbol, timeframe, limit, err := parseBarURI(req.Params.URI, "archive")
		if err != nil {
			return nil, err
		}
		bars, err := archive.ListBars(ctx, symbol, timeframe, limit)
		if err != nil {
			return nil, err
		}
		return jsonResource(req.Params.URI, bars)
	})
}

// parseBarURI splits a <scheme>://<PAIR>/<timeframe>{?limit} resource URI.
// Pairs use a dash since the slash separates the timeframe.
func parseBarURI(uri, scheme string) (string, domain.Timeframe, int, error) {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Scheme != scheme {
		return "", "", 0, mcp.ResourceNotFoundError(uri)
	}

	symbol, err := normalizeSymbol(strings.ReplaceAll(parsed.Host, "-", "/"))
	if err != nil {
		return "", "", 0, err
	}
	timeframe, err := normalizeTimeframe(strings.Trim(strings.TrimSpace(parsed.Path), "/"))
	if err != nil {
		return "", "", 0, err
	}

	limit := defaultSeriesLimit
	if rawLimit := strings.TrimSpace(parsed.Query().Get("limit")); rawLimit != "" {
		n, err := strconv.Atoi(rawLimit)
		if err != nil {
			return "", "", 0, fmt.Errorf("invalid limit: %s", rawLimit)
		}
		limit = normalizeSeriesLimit(n, defaultMaxLimit)
	}
	return symbol, timeframe, limit, nil
}

func jsonResource(uri string, payload any) (*mcp.ReadResourceResult, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(raw),
		}},
	}, nil
}
