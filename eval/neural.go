package eval

import (
	"fmt"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
	ort "github.com/yalue/onnxruntime_go"
	"gorgonia.org/tensor"

	"github.com/patchwork-engine/patchwork/action"
	"github.com/patchwork-engine/patchwork/game"
	"github.com/patchwork-engine/patchwork/quilt"
	"github.com/patchwork-engine/patchwork/timeboard"
)

// PlaneCount is the number of 9x9 input planes fed to the network:
// perspective tiles, opponent tiles, and six scalar planes (balances,
// positions and incomes, each broadcast across the 81 cells).
const PlaneCount = 8

const inputSize = PlaneCount * quilt.Cells

// DefaultBatchSize and DefaultFlushInterval control the batching
// coordinator: coalesce whatever arrived within a short window, or
// once the queue is full, whichever comes first.
const (
	DefaultBatchSize     = 64
	DefaultFlushInterval = 2 * time.Millisecond
)

type inferenceRequest struct {
	input    []float32
	respChan chan inferenceResponse
}

type inferenceResponse struct {
	policy [action.TotalPolicySize]float32
	value  float32
	err    error
}

// Neural is the batched policy+value evaluator. Many search goroutines
// call Evaluate/EvaluatePolicy concurrently; a single background
// goroutine assembles minibatches and runs the ONNX Runtime session,
// matching the coordinator pattern described for AlphaZero-style
// search.
type Neural struct {
	session      *ort.DynamicAdvancedSession
	requestsChan chan inferenceRequest
	batchSize    int
	flush        time.Duration

	closeOnce sync.Once
	done      chan struct{}
}

var ortInitOnce sync.Once
var ortInitErr error

// NewNeural loads an ONNX model from modelPath and starts its batching
// coordinator goroutine.
func NewNeural(modelPath string) (*Neural, error) {
	ortInitOnce.Do(func() {
		ortInitErr = ort.InitializeEnvironment()
	})
	if ortInitErr != nil {
		return nil, fmt.Errorf("eval: initialize onnxruntime: %w", ortInitErr)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("eval: session options: %w", err)
	}
	defer options.Destroy()
	options.SetIntraOpNumThreads(1)
	options.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(modelPath,
		[]string{"input"}, []string{"policy", "value"}, options)
	if err != nil {
		return nil, fmt.Errorf("eval: create session: %w", err)
	}

	n := &Neural{
		session:      session,
		batchSize:    DefaultBatchSize,
		flush:        DefaultFlushInterval,
		requestsChan: make(chan inferenceRequest, DefaultBatchSize*4),
		done:         make(chan struct{}),
	}
	go n.coordinate()
	return n, nil
}

// Close stops the batching coordinator and releases the ONNX session.
func (n *Neural) Close() error {
	n.closeOnce.Do(func() { close(n.done) })
	return n.session.Destroy()
}

func (n *Neural) coordinate() {
	var requests []inferenceRequest
	var batch []float32
	ticker := time.NewTicker(n.flush)
	defer ticker.Stop()

	flush := func() {
		if len(requests) == 0 {
			return
		}
		n.runBatch(requests, batch)
		requests = requests[:0]
		batch = batch[:0]
	}

	for {
		select {
		case <-n.done:
			return
		case req := <-n.requestsChan:
			requests = append(requests, req)
			batch = append(batch, req.input...)
			if len(requests) >= n.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

func (n *Neural) runBatch(requests []inferenceRequest, batchInput []float32) {
	size := int64(len(requests))
	inputShape := ort.NewShape(size, PlaneCount, quilt.Dim, quilt.Dim)
	inputTensor, err := ort.NewTensor(inputShape, batchInput)
	if err != nil {
		n.failAll(requests, err)
		return
	}
	defer inputTensor.Destroy()

	policyTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(size, action.TotalPolicySize))
	if err != nil {
		n.failAll(requests, err)
		return
	}
	defer policyTensor.Destroy()

	valueTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(size, 1))
	if err != nil {
		n.failAll(requests, err)
		return
	}
	defer valueTensor.Destroy()

	if err := n.session.Run([]ort.Value{inputTensor}, []ort.Value{policyTensor, valueTensor}); err != nil {
		n.failAll(requests, err)
		return
	}

	policyData := policyTensor.GetData()
	valueData := valueTensor.GetData()
	for i, req := range requests {
		var resp inferenceResponse
		copy(resp.policy[:], policyData[i*action.TotalPolicySize:(i+1)*action.TotalPolicySize])
		resp.value = valueData[i]
		req.respChan <- resp
	}
}

func (n *Neural) failAll(requests []inferenceRequest, err error) {
	for _, req := range requests {
		req.respChan <- inferenceResponse{err: err}
	}
}

// encode assembles the plane stack for state from perspective's point
// of view, using gorgonia's tensor package purely as a typed row-major
// buffer builder so the layout matches what the training pipeline
// (outside this repo) produces.
func encode(state *game.State, perspective game.Holder) []float32 {
	me := state.PlayerByHolder(perspective)
	them := state.PlayerByHolder(other(perspective))

	planes := tensor.New(tensor.WithShape(PlaneCount, quilt.Cells), tensor.Of(tensor.Float32))
	data := planes.Data().([]float32)

	for i := 0; i < quilt.Cells; i++ {
		row, col := i/quilt.Dim, i%quilt.Dim
		if me.Quilt.Tiles.At(row, col) {
			data[i] = 1
		}
		if them.Quilt.Tiles.At(row, col) {
			data[quilt.Cells+i] = 1
		}
	}
	fillPlane(data, 2, float32(me.ButtonBalance)/50)
	fillPlane(data, 3, float32(them.ButtonBalance)/50)
	fillPlane(data, 4, float32(me.Position)/timeboard.MaxPosition)
	fillPlane(data, 5, float32(them.Position)/timeboard.MaxPosition)
	fillPlane(data, 6, float32(me.Quilt.ButtonIncome)/10)
	fillPlane(data, 7, float32(them.Quilt.ButtonIncome)/10)
	return data
}

func fillPlane(data []float32, plane int, v float32) {
	base := plane * quilt.Cells
	for i := 0; i < quilt.Cells; i++ {
		data[base+i] = v
	}
}

// infer runs one position through the batching pipeline and retries a
// bounded number of times on transient inference failure before the
// caller falls back to value 0 / uniform policy, per the evaluator
// failure-handling contract.
func (n *Neural) infer(state *game.State, perspective game.Holder) (policy [action.TotalPolicySize]float32, value float32, err error) {
	err = retry.Do(func() error {
		respChan := make(chan inferenceResponse, 1)
		n.requestsChan <- inferenceRequest{input: encode(state, perspective), respChan: respChan}
		resp := <-respChan
		if resp.err != nil {
			return resp.err
		}
		policy, value = resp.policy, resp.value
		return nil
	}, retry.Attempts(3), retry.Delay(2*time.Millisecond))
	return policy, value, err
}

// Evaluate implements Evaluator. On inference failure it logs the
// error via zerolog and returns 0 rather than swallowing it silently.
func (n *Neural) Evaluate(state *game.State, perspective game.Holder) float64 {
	_, v, err := n.infer(state, perspective)
	if err != nil {
		log.Warn().Err(err).Msg("eval: neural inference failed, returning 0")
		return 0
	}
	return float64(v)
}

// EvaluatePolicy implements PolicyEvaluator, falling back to a uniform
// policy and value 0 on inference failure.
func (n *Neural) EvaluatePolicy(state *game.State, perspective game.Holder) ([action.TotalPolicySize]float64, float64) {
	p, v, err := n.infer(state, perspective)
	var out [action.TotalPolicySize]float64
	if err != nil {
		uniform := 1.0 / float64(action.TotalPolicySize)
		for i := range out {
			out[i] = uniform
		}
		return out, 0
	}
	for i, x := range p {
		out[i] = float64(x)
	}
	return out, float64(v)
}

// EvaluateBatch implements BatchEvaluator by fanning individual calls
// into the shared coordinator goroutine, which does the real batching;
// this keeps the caller-facing API simple while the coalescing happens
// centrally.
func (n *Neural) EvaluateBatch(states []*game.State, perspective []game.Holder) []float64 {
	out := make([]float64, len(states))
	var wg sync.WaitGroup
	wg.Add(len(states))
	for i := range states {
		go func(i int) {
			defer wg.Done()
			out[i] = n.Evaluate(states[i], perspective[i])
		}(i)
	}
	wg.Wait()
	return out
}
