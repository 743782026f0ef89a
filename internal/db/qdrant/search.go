package qdrant

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kailas-cloud/docsearch/internal/db"
)

// SearchKNN queries the collection named by q.IndexName for the q.K nearest points.
// Entries keep the index order.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, errors.New("collection name is required")
	}
	if len(q.Vector) == 0 {
		return nil, errors.New("vector is required")
	}
	if q.K <= 0 {
		return nil, errors.New("k must be positive")
	}

	limit := uint64(q.K)
	req := &qdrant.QueryPoints{
		CollectionName: q.IndexName,
		Query:          qdrant.NewQuery(q.Vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if len(q.ReturnFields) > 0 {
		req.WithPayload = qdrant.NewWithPayloadInclude(q.ReturnFields...)
	}

	points, err := s.api.Query(ctx, req)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, &db.Error{Op: db.OpQuery, Err: fmt.Errorf("%s: %w", q.IndexName, db.ErrIndexNotFound)}
		}
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}

	entries := make([]db.SearchEntry, 0, len(points))
	for _, p := range points {
		id, err := pointID(p.GetId())
		if err != nil {
			return nil, fmt.Errorf("parse point: %w", err)
		}
		entries = append(entries, db.SearchEntry{
			Key:    id,
			Score:  float64(p.GetScore()),
			Fields: convertPayload(p.GetPayload()),
		})
	}

	return &db.SearchResult{Total: len(entries), Entries: entries}, nil
}

func pointID(id *qdrant.PointId) (string, error) {
	if id == nil {
		return "", errors.New("nil point id")
	}
	switch v := id.GetPointIdOptions().(type) {
	case *qdrant.PointId_Num:
		return strconv.FormatUint(v.Num, 10), nil
	case *qdrant.PointId_Uuid:
		return v.Uuid, nil
	default:
		return "", fmt.Errorf("unexpected point id type %T", v)
	}
}

// convertPayload turns protobuf payload values into Go natives.
func convertPayload(payload map[string]*qdrant.Value) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = convertValue(v)
	}
	return out
}

func convertValue(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch val := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_StructValue:
		if val.StructValue == nil {
			return nil
		}
		return convertPayload(val.StructValue.GetFields())
	case *qdrant.Value_ListValue:
		if val.ListValue == nil {
			return nil
		}
		items := make([]any, len(val.ListValue.GetValues()))
		for i, item := range val.ListValue.GetValues() {
			items[i] = convertValue(item)
		}
		return items
	default:
		return nil
	}
}
