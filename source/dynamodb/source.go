package dynamodb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/animalcache/codec"
	"github.com/hupe1980/animalcache/model"
)

// Client is the subset of the DynamoDB API used by Source. *dynamodb.Client
// satisfies it.
type Client interface {
	dynamodb.ScanAPIClient
}

// Source scans a DynamoDB table.
type Source struct {
	client   Client
	table    string
	segments int32
	pageSize int32
	codec    codec.Codec
}

// Option configures a Source.
type Option func(*Source)

// WithSegments scans the table as n parallel segments.
func WithSegments(n int32) Option {
	return func(s *Source) {
		if n > 0 {
			s.segments = n
		}
	}
}

// WithPageSize sets the Scan Limit per request.
func WithPageSize(n int32) Option {
	return func(s *Source) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithCodec sets the codec used to encode record payloads. Defaults to
// codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(s *Source) {
		if c != nil {
			s.codec = c
		}
	}
}

// New creates a Source for the given table.
func New(client Client, table string, opts ...Option) *Source {
	s := &Source{
		client:   client,
		table:    table,
		segments: 1,
		codec:    codec.Default,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchAll scans the whole table. Items without an animal_id are skipped. The
// result is ordered by id.
func (s *Source) FetchAll(ctx context.Context, projection model.Projection) ([]model.Record, error) {
	expr, names := projectionExpression(projection)

	var (
		mu      sync.Mutex
		records []model.Record
	)

	g, gctx := errgroup.WithContext(ctx)
	for seg := int32(0); seg < s.segments; seg++ {
		input := &dynamodb.ScanInput{
			TableName: aws.String(s.table),
		}
		if expr != "" {
			input.ProjectionExpression = aws.String(expr)
			input.ExpressionAttributeNames = names
		}
		if s.pageSize > 0 {
			input.Limit = aws.Int32(s.pageSize)
		}
		if s.segments > 1 {
			input.Segment = aws.Int32(seg)
			input.TotalSegments = aws.Int32(s.segments)
		}

		g.Go(func() error {
			part, err := s.scan(gctx, input)
			if err != nil {
				return err
			}
			mu.Lock()
			records = append(records, part...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dynamodb: scan %s: %w", s.table, err)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	if records == nil {
		records = []model.Record{}
	}
	return records, nil
}

func (s *Source) scan(ctx context.Context, input *dynamodb.ScanInput) ([]model.Record, error) {
	var out []model.Record
	p := dynamodb.NewScanPaginator(s.client, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			rec, err := s.toRecord(item)
			if err != nil {
				return nil, err
			}
			if rec.ID == "" {
				continue
			}
			out = append(out, rec)
		}
	}
	return out, nil
}

func projectionExpression(p model.Projection) (string, map[string]string) {
	if p == nil {
		return "", nil
	}
	fields := p.Fields()
	placeholders := make([]string, len(fields))
	names := make(map[string]string, len(fields))
	for i, f := range fields {
		ph := fmt.Sprintf("#p%d", i)
		placeholders[i] = ph
		names[ph] = f
	}
	return strings.Join(placeholders, ", "), names
}

func (s *Source) toRecord(item map[string]types.AttributeValue) (model.Record, error) {
	var attrs map[string]any
	if err := attributevalue.UnmarshalMapWithOptions(item, &attrs, func(o *attributevalue.DecoderOptions) {
		o.UseNumber = true
	}); err != nil {
		return model.Record{}, fmt.Errorf("decode item: %w", err)
	}

	rec := model.Record{
		ID:       scalarString(attrs[model.FieldID]),
		Category: scalarString(attrs[model.FieldCategory]),
		Name:     scalarString(attrs[model.FieldName]),
	}
	delete(attrs, model.FieldID)
	delete(attrs, model.FieldCategory)
	delete(attrs, model.FieldName)

	if len(attrs) > 0 {
		b, err := s.codec.Marshal(jsonNumbers(attrs))
		if err != nil {
			return model.Record{}, err
		}
		rec.Payload = b
	}
	return rec, nil
}

func scalarString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case attributevalue.Number:
		return x.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}

// jsonNumbers rewrites decoded DynamoDB numbers as json.Number so they stay
// exact and are encoded as JSON numbers rather than strings.
func jsonNumbers(v any) any {
	switch x := v.(type) {
	case attributevalue.Number:
		return json.Number(x)
	case []attributevalue.Number:
		out := make([]json.Number, len(x))
		for i, n := range x {
			out[i] = json.Number(n)
		}
		return out
	case []any:
		for i, e := range x {
			x[i] = jsonNumbers(e)
		}
		return x
	case map[string]any:
		for k, e := range x {
			x[k] = jsonNumbers(e)
		}
		return x
	default:
		return v
	}
}
