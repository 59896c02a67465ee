package graph_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/pkg/branch"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/leaf"
	"github.com/aretw0/arbor/pkg/selector"
	"github.com/aretw0/arbor/pkg/stream"
)

func noop() leaf.Leaf {
	return leaf.FromFunc(func(ctx context.Context, req domain.Request, out stream.Observer[domain.Response]) (domain.NextResult, error) {
		return domain.NextFallthrough, nil
	})
}

func TestGenerateMermaid(t *testing.T) {
	tree := branch.New().Leaf("start", noop())
	tree.Sub("orders").Leaf("cancel-order", noop())
	tree.Sub("orders").Sub("admin").Leaf("refund", noop())
	leaves := selector.EnumerateLeaves(tree)

	tests := []struct {
		name     string
		overlay  *graph.Overlay
		contains []string
		excludes []string
	}{
		{
			name: "Structure",
			contains: []string{
				"root((\"root\"))",
				"root --> l_start",
				"l_start[\"1. start\"]",
				"b_orders{{\"orders\"}}",
				"root --> b_orders",
				"b_orders --> l_orders_cancel_order",
				"l_orders_cancel_order[\"2. cancel-order\"]",
				"b_orders --> b_orders_admin",
				"b_orders_admin --> l_orders_admin_refund",
			},
			excludes: []string{"classDef"},
		},
		{
			name: "Try Order",
			contains: []string{
				"l_start -. fallthrough .-> l_orders_cancel_order",
				"l_orders_cancel_order -. fallthrough .-> l_orders_admin_refund",
			},
		},
		{
			name:    "Overlay",
			overlay: &graph.Overlay{Tried: []string{"start", "start"}, Answered: "orders.cancel-order"},
			contains: []string{
				"class l_start tried;",
				"class l_orders_cancel_order answered;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(leaves, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("GenerateMermaid() = \n%v\nUnexpected substring: %v", got, unwanted)
				}
			}
			if strings.Count(got, "b_orders{{") != 1 {
				t.Errorf("Branch node should be drawn once:\n%v", got)
			}
		})
	}
}
