package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/23skdu/longbow-probe/internal/model"
	"github.com/23skdu/longbow-probe/internal/ollama"
)

// Debugging aid: run one prompt and dump the residual stream at every
// layer to JSON for offline inspection.

type dump struct {
	Prompt string              `json:"prompt"`
	Tokens []int               `json:"tokens"`
	Pieces []string            `json:"pieces"`
	Hook   string              `json:"hook"`
	Layers map[int][][]float32 `json:"layers"`
}

func main() {
	modelName := flag.String("model", "", "Model name (ollama store) or direct GGUF path")
	prompt := flag.String("prompt", "The capital of France is", "Input prompt")
	hook := flag.String("hook", model.HookResidPost, "resid_pre or resid_post")
	output := flag.String("output", "activations.json", "Output JSON file")
	flag.Parse()

	if *modelName == "" {
		log.Fatal("-model required")
	}

	path, err := ollama.ResolveModelPath(*modelName)
	if err != nil {
		log.Fatalf("Failed to resolve model: %v", err)
	}

	fmt.Printf("Loading model: %s\n", path)
	eng, err := model.Load(path)
	if err != nil {
		log.Fatalf("Failed to load model: %v", err)
	}

	tokens := eng.ToTokens(*prompt)
	pieces := make([]string, len(tokens))
	for i, id := range tokens {
		pieces[i] = eng.TokenString(id)
	}
	fmt.Printf("Tokens: %v\n", tokens)

	layers := make([]int, eng.NumLayers())
	for i := range layers {
		layers[i] = i
	}

	cache, err := eng.RunWithCache(tokens, layers, *hook)
	if err != nil {
		log.Fatalf("Forward pass failed: %v", err)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", " ")
	if err := enc.Encode(dump{
		Prompt: *prompt,
		Tokens: tokens,
		Pieces: pieces,
		Hook:   *hook,
		Layers: cache,
	}); err != nil {
		log.Fatalf("Failed to write JSON: %v", err)
	}

	fmt.Printf("Wrote %d layers to %s\n", len(cache), *output)
}
