package redis

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/memorialdex/internal/db"
)

// XAdd appends an entry with an auto-generated ID. A positive maxLen trims
// the stream approximately (MAXLEN ~) so the write stays O(1).
func (s *Store) XAdd(ctx context.Context, key string, fields map[string]string, maxLen int64) (string, error) {
	if len(fields) == 0 {
		return "", &db.Error{Op: db.OpXAdd, Err: errors.New("at least one field is required")}
	}

	var cmd rueidis.Completed
	if maxLen > 0 {
		fv := s.b().Xadd().Key(key).Maxlen().Almost().Threshold(strconv.FormatInt(maxLen, 10)).Id("*").FieldValue()
		for k, v := range fields {
			fv = fv.FieldValue(k, v)
		}
		cmd = fv.Build()
	} else {
		fv := s.b().Xadd().Key(key).Id("*").FieldValue()
		for k, v := range fields {
			fv = fv.FieldValue(k, v)
		}
		cmd = fv.Build()
	}

	id, err := s.do(ctx, cmd).ToString()
	if err != nil {
		return "", &db.Error{Op: db.OpXAdd, Err: err}
	}
	return id, nil
}

// XRevRange reads entries with IDs in [start, end], newest first. count <= 0
// reads without a cap.
func (s *Store) XRevRange(ctx context.Context, key, end, start string, count int64) ([]db.StreamEntry, error) {
	var cmd rueidis.Completed
	if count > 0 {
		cmd = s.b().Xrevrange().Key(key).End(end).Start(start).Count(count).Build()
	} else {
		cmd = s.b().Xrevrange().Key(key).End(end).Start(start).Build()
	}

	raw, err := s.do(ctx, cmd).AsXRange()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, nil
		}
		return nil, &db.Error{Op: db.OpXRevRange, Err: err}
	}

	out := make([]db.StreamEntry, 0, len(raw))
	for _, e := range raw {
		out = append(out, db.StreamEntry{ID: e.ID, Fields: e.FieldValues})
	}
	return out, nil
}
