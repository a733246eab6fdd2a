package export

import (
	"context"
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/23skdu/longbow-probe/internal/logger"
	"github.com/23skdu/longbow-probe/internal/probe"
)

const putTimeout = 30 * time.Second

// Client streams extracted activation matrices to an Arrow Flight
// endpoint for downstream analysis. Export is strictly optional: any
// failure here is logged by the caller and never aborts the pipeline.
type Client struct {
	addr   string
	client flight.Client
}

func NewClient(addr string) *Client {
	return &Client{addr: addr}
}

// Connect dials the Flight endpoint.
func (c *Client) Connect() error {
	fc, err := flight.NewClientWithMiddleware(c.addr, nil, nil,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("failed to dial flight endpoint %s: %w", c.addr, err)
	}
	c.client = fc
	return nil
}

func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// activationSchema builds the per-put schema: one row per example, with
// the label and the fixed-width activation vector.
func activationSchema(dim int) *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "label", Type: arrow.PrimitiveTypes.Int32},
		{Name: "activation", Type: arrow.FixedSizeListOf(int32(dim), arrow.PrimitiveTypes.Float32)},
	}, nil)
}

// PutActivations sends one (task, layer) extraction as a single record
// batch, addressed by a descriptor path of activations/<task>/<layer>.
func (c *Client) PutActivations(ctx context.Context, task string, layer int, ext *probe.Extraction) error {
	if c.client == nil {
		return fmt.Errorf("client not connected")
	}

	n, d := ext.X.Dims()
	schema := activationSchema(d)

	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()

	labels := b.Field(0).(*array.Int32Builder)
	lists := b.Field(1).(*array.FixedSizeListBuilder)
	values := lists.ValueBuilder().(*array.Float32Builder)

	for i := 0; i < n; i++ {
		labels.Append(int32(ext.Labels[i]))
		lists.Append(true)
		row := ext.X.RawRowView(i)
		for _, v := range row {
			values.Append(float32(v))
		}
	}

	rec := b.NewRecord()
	defer rec.Release()

	ctx, cancel := context.WithTimeout(ctx, putTimeout)
	defer cancel()

	stream, err := c.client.DoPut(ctx)
	if err != nil {
		return fmt.Errorf("failed to open DoPut stream: %w", err)
	}

	w := flight.NewRecordWriter(stream, ipc.WithSchema(schema))
	w.SetFlightDescriptor(&flight.FlightDescriptor{
		Type: flight.DescriptorPATH,
		Path: []string{"activations", task, fmt.Sprint(layer)},
	})

	if err := w.Write(rec); err != nil {
		w.Close()
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close record writer: %w", err)
	}
	if err := stream.CloseSend(); err != nil {
		return fmt.Errorf("failed to close stream: %w", err)
	}

	logger.Log.Debug("activations exported",
		"task", task, "layer", layer, "rows", n, "dims", d)
	return nil
}
