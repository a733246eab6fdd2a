package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/23skdu/longbow-probe/internal/gguf"
	"github.com/23skdu/longbow-probe/internal/ollama"
)

// Debugging aid: print the metadata and tensor table of a GGUF file to
// verify a model export before probing it.

func main() {
	modelName := flag.String("model", "", "Model name (ollama store) or direct GGUF path")
	tensorFilter := flag.String("tensors", "", "Only list tensors whose name contains this substring")
	flag.Parse()

	if *modelName == "" {
		log.Fatal("-model required")
	}

	path, err := ollama.ResolveModelPath(*modelName)
	if err != nil {
		log.Fatalf("Failed to resolve model: %v", err)
	}

	f, err := gguf.LoadFile(path)
	if err != nil {
		log.Fatalf("Failed to load model: %v", err)
	}
	defer f.Close()

	fmt.Printf("GGUF v%d: %d tensors, %d metadata keys\n",
		f.Header.Version, f.Header.TensorCount, f.Header.KVCount)

	fmt.Println("\n=== Metadata ===")
	keys := make([]string, 0, len(f.KV))
	for k := range f.KV {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := f.KV[k]
		if arr, ok := v.([]interface{}); ok && len(arr) > 8 {
			fmt.Printf("%-45s [%d values]\n", k, len(arr))
			continue
		}
		fmt.Printf("%-45s %v\n", k, v)
	}

	fmt.Println("\n=== Tensors ===")
	for _, t := range f.Tensors {
		if *tensorFilter != "" && !strings.Contains(t.Name, *tensorFilter) {
			continue
		}
		fmt.Printf("%-40s %-6s dims=%v (%d bytes)\n",
			t.Name, t.Type.String(), t.Dimensions, t.SizeBytes())
	}
}
