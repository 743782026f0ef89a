package qdrant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kailas-cloud/docsearch/internal/db"
)

type fakeAPI struct {
	points    []*qdrant.ScoredPoint
	queryErr  error
	healthErr error
	lastReq   *qdrant.QueryPoints
	closed    bool
}

func (f *fakeAPI) Query(_ context.Context, req *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error) {
	f.lastReq = req
	return f.points, f.queryErr
}

func (f *fakeAPI) HealthCheck(context.Context) (*qdrant.HealthCheckReply, error) {
	if f.healthErr != nil {
		return nil, f.healthErr
	}
	return &qdrant.HealthCheckReply{Title: "qdrant", Version: "1.16.0"}, nil
}

func (f *fakeAPI) Close() error {
	f.closed = true
	return nil
}

func str(s string) *qdrant.Value {
	return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: s}}
}

func numID(n uint64) *qdrant.PointId {
	return &qdrant.PointId{PointIdOptions: &qdrant.PointId_Num{Num: n}}
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		host    string
		port    int
		tls     bool
		wantErr bool
	}{
		{name: "default port", raw: "http://localhost", host: "localhost", port: 6334},
		{name: "explicit port", raw: "http://qdrant:7000", host: "qdrant", port: 7000},
		{name: "tls", raw: "https://cloud.example.com:6334", host: "cloud.example.com", port: 6334, tls: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "bad scheme", raw: "grpc://localhost:6334", wantErr: true},
		{name: "no host", raw: "http://", wantErr: true},
		{name: "bad port", raw: "http://localhost:99999", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, port, useTLS, err := parseURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.host, host)
			assert.Equal(t, tt.port, port)
			assert.Equal(t, tt.tls, useTLS)
		})
	}
}

func TestSearchKNN_Success(t *testing.T) {
	api := &fakeAPI{points: []*qdrant.ScoredPoint{
		{
			Id:    numID(42),
			Score: 0.91,
			Payload: map[string]*qdrant.Value{
				"title": str("Getting started"),
				"order": {Kind: &qdrant.Value_IntegerValue{IntegerValue: 3}},
			},
		},
		{
			Id:      &qdrant.PointId{PointIdOptions: &qdrant.PointId_Uuid{Uuid: "5c56c793-69f3-4fbf-87e6-c4bf54c28c26"}},
			Score:   0.95,
			Payload: map[string]*qdrant.Value{"title": str("API")},
		},
	}}
	s := NewStoreForTest(api)

	res, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName: "docs",
		Vector:    []float32{0.1, 0.2, 0.3},
		K:         5,
	})
	require.NoError(t, err)
	require.Len(t, res.Entries, 2)

	// index order is kept even when scores are not descending
	assert.Equal(t, "42", res.Entries[0].Key)
	assert.Equal(t, "5c56c793-69f3-4fbf-87e6-c4bf54c28c26", res.Entries[1].Key)
	assert.InDelta(t, 0.91, res.Entries[0].Score, 1e-6)
	assert.Equal(t, "Getting started", res.Entries[0].Fields["title"])
	assert.Equal(t, int64(3), res.Entries[0].Fields["order"])

	require.NotNil(t, api.lastReq)
	assert.Equal(t, "docs", api.lastReq.GetCollectionName())
	assert.Equal(t, uint64(5), api.lastReq.GetLimit())
	assert.True(t, api.lastReq.GetWithPayload().GetEnable())
}

func TestSearchKNN_ReturnFields(t *testing.T) {
	api := &fakeAPI{}
	s := NewStoreForTest(api)

	_, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName:    "docs",
		Vector:       []float32{1},
		K:            1,
		ReturnFields: []string{"title", "url"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "url"}, api.lastReq.GetWithPayload().GetInclude().GetFields())
}

func TestSearchKNN_CollectionNotFound(t *testing.T) {
	s := NewStoreForTest(&fakeAPI{queryErr: status.Error(codes.NotFound, "collection docs not found")})

	_, err := s.SearchKNN(context.Background(), &db.KNNQuery{IndexName: "docs", Vector: []float32{1}, K: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrIndexNotFound)

	var dbErr *db.Error
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, db.OpQuery, dbErr.Op)
}

func TestSearchKNN_Unavailable(t *testing.T) {
	cause := status.Error(codes.Unavailable, "connection refused")
	s := NewStoreForTest(&fakeAPI{queryErr: cause})

	_, err := s.SearchKNN(context.Background(), &db.KNNQuery{IndexName: "docs", Vector: []float32{1}, K: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.False(t, errors.Is(err, db.ErrIndexNotFound))
}

func TestSearchKNN_NilPointID(t *testing.T) {
	s := NewStoreForTest(&fakeAPI{points: []*qdrant.ScoredPoint{{Score: 1}}})

	_, err := s.SearchKNN(context.Background(), &db.KNNQuery{IndexName: "docs", Vector: []float32{1}, K: 1})
	assert.Error(t, err)
}

func TestSearchKNN_Validation(t *testing.T) {
	s := NewStoreForTest(&fakeAPI{})
	ctx := context.Background()

	_, err := s.SearchKNN(ctx, &db.KNNQuery{Vector: []float32{1}, K: 1})
	assert.Error(t, err, "empty collection")

	_, err = s.SearchKNN(ctx, &db.KNNQuery{IndexName: "docs", K: 1})
	assert.Error(t, err, "empty vector")

	_, err = s.SearchKNN(ctx, &db.KNNQuery{IndexName: "docs", Vector: []float32{1}})
	assert.Error(t, err, "k=0")
}

func TestConvertPayload_Nested(t *testing.T) {
	payload := map[string]*qdrant.Value{
		"flag":  {Kind: &qdrant.Value_BoolValue{BoolValue: true}},
		"ratio": {Kind: &qdrant.Value_DoubleValue{DoubleValue: 0.5}},
		"none":  {Kind: &qdrant.Value_NullValue{}},
		"meta": {Kind: &qdrant.Value_StructValue{StructValue: &qdrant.Struct{
			Fields: map[string]*qdrant.Value{"lang": str("en")},
		}}},
		"tags": {Kind: &qdrant.Value_ListValue{ListValue: &qdrant.ListValue{
			Values: []*qdrant.Value{str("a"), str("b")},
		}}},
	}

	got := convertPayload(payload)
	assert.Equal(t, true, got["flag"])
	assert.Equal(t, 0.5, got["ratio"])
	assert.Nil(t, got["none"])
	assert.Equal(t, map[string]any{"lang": "en"}, got["meta"])
	assert.Equal(t, []any{"a", "b"}, got["tags"])
}

func TestPingAndClose(t *testing.T) {
	api := &fakeAPI{}
	s := NewStoreForTest(api)
	require.NoError(t, s.Ping(context.Background()))

	api.healthErr = errors.New("down")
	assert.Error(t, s.Ping(context.Background()))

	s.Close()
	assert.True(t, api.closed)
}

func TestWaitForReady(t *testing.T) {
	s := NewStoreForTest(&fakeAPI{})
	require.NoError(t, s.WaitForReady(context.Background(), time.Second))
}

func TestWaitForReady_Timeout(t *testing.T) {
	s := NewStoreForTest(&fakeAPI{healthErr: errors.New("down")})
	err := s.WaitForReady(context.Background(), 250*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
