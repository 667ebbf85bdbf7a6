// Package camundatest provides an in-memory worker.JobClient that records the
// commands a handler sends for a job.
package camundatest

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"google.golang.org/grpc"
)

type Completion struct {
	JobKey    int64
	Variables map[string]interface{}
}

type Failure struct {
	JobKey       int64
	Retries      int32
	ErrorMessage string
	Variables    map[string]interface{}
}

type Throw struct {
	JobKey       int64
	ErrorCode    string
	ErrorMessage string
	Variables    map[string]interface{}
}

// JobClient implements worker.JobClient over a recording gateway.
type JobClient struct {
	gateway *gateway
}

func NewJobClient() *JobClient {
	return &JobClient{gateway: &gateway{}}
}

func noRetry(context.Context, error) bool { return false }

func (c *JobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c.gateway, noRetry)
}

func (c *JobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c.gateway, noRetry)
}

func (c *JobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c.gateway, noRetry)
}

func (c *JobClient) Completions() []Completion {
	c.gateway.mu.Lock()
	defer c.gateway.mu.Unlock()
	return append([]Completion(nil), c.gateway.completions...)
}

func (c *JobClient) Failures() []Failure {
	c.gateway.mu.Lock()
	defer c.gateway.mu.Unlock()
	return append([]Failure(nil), c.gateway.failures...)
}

func (c *JobClient) Throws() []Throw {
	c.gateway.mu.Lock()
	defer c.gateway.mu.Unlock()
	return append([]Throw(nil), c.gateway.throws...)
}

// Job builds an activated job carrying variables encoded as JSON.
func Job(key int64, jobType string, retries int32, variables interface{}) entities.Job {
	raw, err := json.Marshal(variables)
	if err != nil {
		panic(err)
	}
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               jobType,
		Retries:            retries,
		ProcessInstanceKey: key * 10,
		Variables:          string(raw),
	}}
}

// RawJob is Job with variables passed through untouched.
func RawJob(key int64, jobType string, retries int32, variables string) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               jobType,
		Retries:            retries,
		ProcessInstanceKey: key * 10,
		Variables:          variables,
	}}
}

// gateway answers the three job commands; every other RPC panics through the
// nil embedded client.
type gateway struct {
	pb.GatewayClient

	mu          sync.Mutex
	completions []Completion
	failures    []Failure
	throws      []Throw
}

func decode(vars string) map[string]interface{} {
	if vars == "" {
		return nil
	}
	out := map[string]interface{}{}
	if err := json.Unmarshal([]byte(vars), &out); err != nil {
		return nil
	}
	return out
}

func (g *gateway) CompleteJob(_ context.Context, in *pb.CompleteJobRequest, _ ...grpc.CallOption) (*pb.CompleteJobResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.completions = append(g.completions, Completion{JobKey: in.JobKey, Variables: decode(in.Variables)})
	return &pb.CompleteJobResponse{}, nil
}

func (g *gateway) FailJob(_ context.Context, in *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures = append(g.failures, Failure{
		JobKey:       in.JobKey,
		Retries:      in.Retries,
		ErrorMessage: in.ErrorMessage,
		Variables:    decode(in.Variables),
	})
	return &pb.FailJobResponse{}, nil
}

func (g *gateway) ThrowError(_ context.Context, in *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.throws = append(g.throws, Throw{
		JobKey:       in.JobKey,
		ErrorCode:    in.ErrorCode,
		ErrorMessage: in.ErrorMessage,
		Variables:    decode(in.Variables),
	})
	return &pb.ThrowErrorResponse{}, nil
}
