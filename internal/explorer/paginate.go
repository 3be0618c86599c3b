package explorer

import (
	"context"
	"strings"
)

// FetchWindow pages through one activity category in descending timestamp
// order, keeping rows inside the window. Paging stops when the window start
// is passed, the data runs out, or the upstream page ceiling is hit; in the
// last case the result is marked truncated.
func (c *Client) FetchWindow(ctx context.Context, action Action, address string, window Window) (WindowResult, error) {
	if strings.TrimSpace(c.opts.APIKey) == "" {
		return WindowResult{}, ErrMissingAPIKey
	}

	var out WindowResult

	for page := 1; page <= c.opts.MaxPages; page++ {
		env, err := c.call(ctx, action, c.accountQuery(action, address, page, c.opts.PageSize, "desc"))
		if err != nil {
			return WindowResult{}, err
		}

		rows, err := env.rows()
		if err != nil {
			return WindowResult{}, &UpstreamError{Kind: KindFatalUpstream, Action: action, Message: err.Error()}
		}
		if len(rows) == 0 {
			break
		}

		for _, row := range rows {
			if window.Contains(row.Unix()) {
				out.Rows = append(out.Rows, row)
			}
		}

		// Descending order: a row below the window start means every later
		// page is older still.
		if minTS, ok := minTimestamp(rows); ok && minTS < window.Start {
			break
		}

		if len(rows) < c.opts.PageSize {
			break
		}

		if page == c.opts.MaxPages {
			out.Truncated = true
		}
	}

	c.logger.Debug().
		Str("action", string(action)).
		Str("address", address).
		Int("rows", len(out.Rows)).
		Bool("truncated", out.Truncated).
		Msg("window fetch complete")

	return out, nil
}

// FirstSeen asks for the single earliest native transaction. A wallet with
// no history yields zero without error.
func (c *Client) FirstSeen(ctx context.Context, address string) (int64, error) {
	if strings.TrimSpace(c.opts.APIKey) == "" {
		return 0, ErrMissingAPIKey
	}

	env, err := c.call(ctx, ActionTxList, c.accountQuery(ActionTxList, address, 1, 1, "asc"))
	if err != nil {
		return 0, err
	}

	rows, err := env.rows()
	if err != nil || len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Unix(), nil
}

func minTimestamp(rows []Transaction) (int64, bool) {
	var min int64
	found := false
	for _, row := range rows {
		ts := row.Unix()
		if ts == 0 {
			continue
		}
		if !found || ts < min {
			min = ts
			found = true
		}
	}
	return min, found
}
