package agentrpc

import (
	"context"
	"errors"
	"testing"

	pb "github.com/danielpatrickdp/codeclash/go-engine/gen/agent"
	"google.golang.org/grpc"
)

// #region mock
type mockAgentService struct {
	pb.AgentServiceClient

	resp *pb.ObserveResponse
	err  error

	got *pb.ObserveRequest
}

func (m *mockAgentService) Observe(_ context.Context, req *pb.ObserveRequest, _ ...grpc.CallOption) (*pb.ObserveResponse, error) {
	m.got = req
	return m.resp, m.err
}

// #endregion mock

// #region constructor-tests
func TestNewClient(t *testing.T) {
	client, err := NewClient("localhost:0")
	if err != nil {
		t.Fatalf("unexpected error creating client: %v", err)
	}
	defer client.Close()
}

func TestNewClientWithService(t *testing.T) {
	c := NewClientWithService(&mockAgentService{})
	if c == nil {
		t.Fatal("expected non-nil client")
	}
	if c.client == nil {
		t.Fatal("expected non-nil internal client")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close without connection: %v", err)
	}
}

// #endregion constructor-tests

// #region observe-tests
func TestObserve_Success(t *testing.T) {
	mock := &mockAgentService{
		resp: &pb.ObserveResponse{
			Patch:      []byte("--- a/main.py\n"),
			Calls:      9,
			CostUsd:    1.25,
			ExitStatus: "completed",
		},
	}
	c := NewClientWithService(mock)

	result, err := c.Observe(context.Background(), ObserveParams{
		TournamentID: "t-1",
		Player:       "alice",
		Round:        2,
		Rounds:       8,
		MatchLog:     "alice wins",
		WorkDir:      "/work/alice",
		OpponentDirs: map[string]string{"bob": "/work/bob"},
		Model:        "some-model",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(result.Patch) != "--- a/main.py\n" {
		t.Errorf("expected patch bytes, got %q", result.Patch)
	}
	if result.Calls != 9 {
		t.Errorf("expected 9 calls, got %d", result.Calls)
	}
	if result.CostUSD != 1.25 {
		t.Errorf("expected cost 1.25, got %f", result.CostUSD)
	}
	if result.ExitStatus != "completed" {
		t.Errorf("expected exit status 'completed', got %q", result.ExitStatus)
	}

	if mock.got.TournamentId != "t-1" || mock.got.Player != "alice" {
		t.Errorf("unexpected request identity: %+v", mock.got)
	}
	if mock.got.Round != 2 || mock.got.Rounds != 8 {
		t.Errorf("unexpected request rounds: %+v", mock.got)
	}
	if mock.got.Workdir != "/work/alice" || mock.got.OpponentDirs["bob"] != "/work/bob" {
		t.Errorf("unexpected request dirs: %+v", mock.got)
	}
	if mock.got.Model != "some-model" {
		t.Errorf("expected model in request, got %q", mock.got.Model)
	}
}

func TestObserve_Error(t *testing.T) {
	mock := &mockAgentService{
		err: errors.New("rpc failed"),
	}
	c := NewClientWithService(mock)

	_, err := c.Observe(context.Background(), ObserveParams{Player: "alice", Round: 1})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, mock.err) {
		t.Errorf("expected wrapped rpc error, got: %v", err)
	}
}

// #endregion observe-tests
