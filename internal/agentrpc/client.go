// Package agentrpc wraps the gRPC connection to the external agent runner.
//
// Regenerate the protocol bindings with:
//
//	protoc --go_out=. --go-grpc_out=. --go_opt=module=github.com/danielpatrickdp/codeclash/go-engine --go-grpc_opt=module=github.com/danielpatrickdp/codeclash/go-engine proto/agent.proto
package agentrpc

import (
	"context"
	"fmt"

	pb "github.com/danielpatrickdp/codeclash/go-engine/gen/agent"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// #region types
// ObserveParams carries one round's observation to the agent.
type ObserveParams struct {
	TournamentID string
	Player       string
	Round        int
	Rounds       int
	MatchLog     string
	WorkDir      string
	OpponentDirs map[string]string
	Model        string
}

// ObserveResult holds the agent's response for one round.
type ObserveResult struct {
	Patch      []byte
	Calls      int
	CostUSD    float64
	ExitStatus string
}

// Observer is the capability evolving players need from the agent runner.
type Observer interface {
	Observe(ctx context.Context, params ObserveParams) (ObserveResult, error)
}

// #endregion types

// #region client-struct
// Client wraps the gRPC connection to the agent runner.
type Client struct {
	conn   *grpc.ClientConn
	client pb.AgentServiceClient
}

// #endregion client-struct

// #region constructor
// NewClient connects to the agent runner gRPC server.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{
		conn:   conn,
		client: pb.NewAgentServiceClient(conn),
	}, nil
}

// NewClientWithService creates a Client with an injected service
// implementation. Used for testing without a real gRPC connection.
func NewClientWithService(svc pb.AgentServiceClient) *Client {
	return &Client{client: svc}
}

// Close shuts down the gRPC connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion constructor

// #region observe
// Observe sends the round observation and returns the agent's patch.
func (c *Client) Observe(ctx context.Context, params ObserveParams) (ObserveResult, error) {
	resp, err := c.client.Observe(ctx, &pb.ObserveRequest{
		TournamentId: params.TournamentID,
		Player:       params.Player,
		Round:        int32(params.Round),
		Rounds:       int32(params.Rounds),
		MatchLog:     params.MatchLog,
		Workdir:      params.WorkDir,
		OpponentDirs: params.OpponentDirs,
		Model:        params.Model,
	})
	if err != nil {
		return ObserveResult{}, fmt.Errorf("observe rpc: %w", err)
	}

	return ObserveResult{
		Patch:      resp.Patch,
		Calls:      int(resp.Calls),
		CostUSD:    resp.CostUsd,
		ExitStatus: resp.ExitStatus,
	}, nil
}

// #endregion observe
