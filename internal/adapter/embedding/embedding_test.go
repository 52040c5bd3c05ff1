package embedding

import "testing"

func TestNew_DefaultsToOllama(t *testing.T) {
	fn, err := New("", "nomic-embed-text", "", "")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if fn == nil {
		t.Fatal("expected an embedding function")
	}
}

func TestNew_OllamaExplicit(t *testing.T) {
	fn, err := New("ollama", "nomic-embed-text", "http://localhost:11434/api", "")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if fn == nil {
		t.Fatal("expected an embedding function")
	}
}

func TestNew_OpenAIRequiresKey(t *testing.T) {
	t.Setenv("MADRASA_TEST_API_KEY", "")
	if _, err := New("openai", "text-embedding-3-small", "", "MADRASA_TEST_API_KEY"); err == nil {
		t.Fatal("expected an error when the API key env var is empty")
	}
}

func TestNew_OpenAIWithKey(t *testing.T) {
	t.Setenv("MADRASA_TEST_API_KEY", "sk-test")
	fn, err := New("openai", "text-embedding-3-small", "", "MADRASA_TEST_API_KEY")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if fn == nil {
		t.Fatal("expected an embedding function")
	}
}

func TestNew_CompatRequiresBaseURL(t *testing.T) {
	t.Setenv("MADRASA_TEST_API_KEY", "sk-test")
	if _, err := New("openai-compat", "some-model", "", "MADRASA_TEST_API_KEY"); err == nil {
		t.Fatal("expected an error without a base URL")
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	if _, err := New("cohere", "embed-v3", "", ""); err == nil {
		t.Fatal("expected an error for an unknown provider")
	}
}
