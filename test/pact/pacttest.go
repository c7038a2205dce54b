//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "rocketshoes-stockd"
	ConsumerName = "rocketshoes-cart"

	StateProductInStock = "product 1 exists with stock 3"
	StateProductMissing = "no product with id 404"
)

const (
	ExistingProductID int64 = 1
	MissingProductID  int64 = 404
	ExistingStock           = 3
)

const (
	exampleTitle = "Tênis de Caminhada Leve Confortável"
	examplePrice = 179.9
	exampleImage = "https://example.pact/shoes/1.jpg"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the cart consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleProductPayload provides stable catalog data for pact interactions.
func ExampleProductPayload() map[string]any {
	return map[string]any{
		"id":    ExistingProductID,
		"title": exampleTitle,
		"price": examplePrice,
		"image": exampleImage,
	}
}

// ExampleStockPayload provides stable stock data for pact interactions.
func ExampleStockPayload() map[string]any {
	return map[string]any{
		"id":     ExistingProductID,
		"amount": ExistingStock,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
