package export_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/funvibe/phylostack/internal/evaluator"
	"github.com/funvibe/phylostack/internal/export"
	"github.com/funvibe/phylostack/internal/lexer"
	"github.com/funvibe/phylostack/internal/parser"
	"github.com/funvibe/phylostack/internal/pipeline"
)

func buildEnv(t *testing.T, input string) *evaluator.Environment {
	t.Helper()
	in := evaluator.New()
	ctx := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{Operations: in.Registry()},
		&evaluator.EvaluatorProcessor{Interp: in},
	).Run(pipeline.NewPipelineContext(input))
	if err := ctx.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return in.Env()
}

func TestEncodeJSON(t *testing.T) {
	env := buildEnv(t, `1.0 0.5 Normal "x" ~ 5 "n" = 2.0 "x" observe`)
	var buf bytes.Buffer
	if err := export.Encode(&buf, export.Build(env, export.Options{ID: "test-id"}), export.FormatJSON); err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `{
  "version": "1.0",
  "id": "test-id",
  "variables": [
    {
      "name": "x",
      "kind": "stochastic",
      "distribution": {
        "type": "Normal",
        "parameters": {
          "mean": 1.0,
          "sd": 0.5
        }
      },
      "observed": 2.0
    },
    {
      "name": "n",
      "kind": "deterministic",
      "value": 5
    }
  ],
  "constraints": []
}
`
	if got := buf.String(); got != want {
		t.Errorf("JSON mismatch\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestReferencesAndModels(t *testing.T) {
	env := buildEnv(t, `
		0.1 Yule "tree" ~
		[ 1 1 1 1 ] Dirichlet "pi" ~
		2.0 "pi" var HKY "Q" =
		"tree" var "Q" var PhyloCTMC "seqs" ~
		[ "A" "AC" sequence "B" "AG" sequence ] "seqs" observe
		0.5 0 1 bounded constrain
	`)
	var buf bytes.Buffer
	if err := export.Encode(&buf, export.Build(env, export.Options{ID: "x"}), "json"); err != nil {
		t.Fatalf("encode: %v", err)
	}

	var doc struct {
		Variables []struct {
			Name         string                 `json:"name"`
			Distribution map[string]interface{} `json:"distribution"`
			Value        map[string]interface{} `json:"value"`
			Observed     []map[string]string    `json:"observed"`
		} `json:"variables"`
		Constraints []struct {
			Type     string        `json:"type"`
			Operands []interface{} `json:"operands"`
		} `json:"constraints"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if len(doc.Variables) != 4 {
		t.Fatalf("expected 4 variables, got %d", len(doc.Variables))
	}

	q := doc.Variables[2]
	if q.Value["model"] != "HKY" {
		t.Errorf("Q should export as an HKY model, got %v", q.Value)
	}
	freqs := q.Value["parameters"].(map[string]interface{})["freqs"].(map[string]interface{})
	if freqs["ref"] != "pi" {
		t.Errorf("freqs should reference pi, got %v", freqs)
	}

	seqs := doc.Variables[3]
	ctmc := seqs.Distribution["parameters"].(map[string]interface{})
	if ctmc["tree"].(map[string]interface{})["ref"] != "tree" {
		t.Errorf("tree parameter should be a reference, got %v", ctmc["tree"])
	}
	if len(seqs.Observed) != 2 || seqs.Observed[1]["taxon"] != "B" || seqs.Observed[1]["sequence"] != "AG" {
		t.Errorf("unexpected alignment %v", seqs.Observed)
	}

	if len(doc.Constraints) != 1 || doc.Constraints[0].Type != "bounded" || len(doc.Constraints[0].Operands) != 3 {
		t.Errorf("unexpected constraints %+v", doc.Constraints)
	}
}

func TestParameterOrderIsKept(t *testing.T) {
	env := buildEnv(t, `[ 1 2 1 1 2 1 ] [ 0.25 0.25 0.25 0.25 ] GTR "Q" =`)
	var buf bytes.Buffer
	if err := export.Encode(&buf, export.Build(env, export.Options{ID: "x"}), "json"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Index(out, `"rates"`) > strings.Index(out, `"freqs"`) {
		t.Errorf("rates should precede freqs:\n%s", out)
	}
}

func TestEncodeYAML(t *testing.T) {
	env := buildEnv(t, `1.0 0.5 Normal "x" ~ 5 "n" = [ 1 2.5 ] "arr" =`)
	var buf bytes.Buffer
	if err := export.Encode(&buf, export.Build(env, export.Options{ID: "test-id"}), export.FormatYAML); err != nil {
		t.Fatalf("encode: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"id: test-id", "type: Normal", "mean: 1.0", "sd: 0.5", "value: 5"} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML output missing %q:\n%s", want, out)
		}
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if doc["version"] != "1.0" {
		t.Errorf("version should stay a string, got %#v", doc["version"])
	}
	vars := doc["variables"].([]interface{})
	arr := vars[2].(map[string]interface{})["value"].([]interface{})
	if arr[0] != 1 || arr[1] != 2.5 {
		t.Errorf("unexpected array %#v", arr)
	}
}

func TestFunctionsOption(t *testing.T) {
	env := buildEnv(t, ": double ( n -- n2 ) 2 * ;")
	doc := export.Build(env, export.Options{Functions: true})
	if len(doc.Functions) != 1 {
		t.Fatalf("expected one function, got %d", len(doc.Functions))
	}
	fn := doc.Functions[0]
	if fn.Name != "double" || fn.StackEffect != "n -- n2" || fn.Body != "2 *" {
		t.Errorf("unexpected function %+v", fn)
	}
	if doc := export.Build(env, export.Options{}); len(doc.Functions) != 0 {
		t.Error("functions should be omitted by default")
	}
}

func TestRandomID(t *testing.T) {
	env := buildEnv(t, "")
	a := export.Build(env, export.Options{})
	b := export.Build(env, export.Options{})
	if _, err := uuid.Parse(a.ID); err != nil {
		t.Errorf("id %q is not a UUID: %v", a.ID, err)
	}
	if a.ID == b.ID {
		t.Error("ids should differ between builds")
	}
}

func TestUnknownFormat(t *testing.T) {
	doc := export.Build(evaluator.NewEnvironment(), export.Options{ID: "x"})
	if err := export.Encode(&bytes.Buffer{}, doc, "xml"); err == nil {
		t.Error("expected an error for xml")
	}
}
