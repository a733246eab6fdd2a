package results

import (
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Schema matches the CSV column order exactly so the two artifacts carry
// identical rows.
var resultsSchema = arrow.NewSchema([]arrow.Field{
	{Name: "layer", Type: arrow.PrimitiveTypes.Int32},
	{Name: "task", Type: arrow.BinaryTypes.String},
	{Name: "method", Type: arrow.BinaryTypes.String},
	{Name: "run", Type: arrow.PrimitiveTypes.Int32},
	{Name: "mutual_information", Type: arrow.PrimitiveTypes.Float64},
	{Name: "accuracy", Type: arrow.PrimitiveTypes.Float64},
	{Name: "f1_score", Type: arrow.PrimitiveTypes.Float64},
	{Name: "n_features_used", Type: arrow.PrimitiveTypes.Int32},
}, nil)

// ToArrowRecord builds one Arrow record holding the whole table. The
// caller owns the returned record and must Release it.
func (t *Table) ToArrowRecord(mem memory.Allocator) arrow.Record {
	b := array.NewRecordBuilder(mem, resultsSchema)
	defer b.Release()

	for _, r := range t.records {
		b.Field(0).(*array.Int32Builder).Append(int32(r.Layer))
		b.Field(1).(*array.StringBuilder).Append(r.Task)
		b.Field(2).(*array.StringBuilder).Append(r.Method)
		b.Field(3).(*array.Int32Builder).Append(int32(r.Run))
		b.Field(4).(*array.Float64Builder).Append(r.MutualInformation)
		b.Field(5).(*array.Float64Builder).Append(r.Accuracy)
		b.Field(6).(*array.Float64Builder).Append(r.F1)
		b.Field(7).(*array.Int32Builder).Append(int32(r.NFeatures))
	}

	return b.NewRecord()
}

// WriteArrow persists the table in Arrow IPC file format alongside the
// CSV, for consumers that want typed columns without re-parsing.
func (t *Table) WriteArrow(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create arrow file: %w", err)
	}
	defer f.Close()

	rec := t.ToArrowRecord(memory.DefaultAllocator)
	defer rec.Release()

	w, err := ipc.NewFileWriter(f, ipc.WithSchema(resultsSchema))
	if err != nil {
		return fmt.Errorf("failed to open arrow writer: %w", err)
	}
	if err := w.Write(rec); err != nil {
		w.Close()
		return fmt.Errorf("failed to write arrow record: %w", err)
	}
	return w.Close()
}
