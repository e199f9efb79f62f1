// Command zinc-run loads an Application (a Circuit or a Contract) from
// JSON and executes it. By default it runs in witness mode and prints
// the output JSON to stdout. With -prove it instead runs a Groth16
// trusted setup, produces a proof, and verifies it before printing
// the output; the proof itself is not printed.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/zinc-lang/zinc/pkg/zinc"
)

func main() {
	appPath := flag.String("app", "", "path to the Application JSON file")
	inputPath := flag.String("input", "", "path to the input JSON file (defaults to stdin)")
	method := flag.String("method", "", "contract method name (required for a Contract application)")
	storagePath := flag.String("storage", "", "path to the contract's pre-call storage JSON (Contract only)")
	prove := flag.Bool("prove", false, "run Groth16 setup, prove, and verify instead of plain witness execution")
	test := flag.Bool("test", false, "run the application's unit tests instead of executing it")
	flag.Parse()

	if *appPath == "" {
		fatal("missing -app")
	}
	appData, err := os.ReadFile(*appPath)
	if err != nil {
		fatal(fmt.Sprintf("reading application file: %v", err))
	}
	app, err := zinc.LoadApplication(appData)
	if err != nil {
		fatal(fmt.Sprintf("loading application: %v", err))
	}

	if *test {
		runUnitTests(app)
		return
	}

	input, err := readInput(*inputPath)
	if err != nil {
		fatal(fmt.Sprintf("reading input: %v", err))
	}

	switch app.Kind {
	case "Circuit":
		runCircuit(app.Circuit, input, *prove)
	case "Contract":
		if *method == "" {
			fatal("missing -method for a Contract application")
		}
		runMethod(app.Contract, *method, input, *storagePath, *prove)
	default:
		fatal(fmt.Sprintf("unknown application kind %q", app.Kind))
	}
}

func runCircuit(circuit *zinc.Circuit, input json.RawMessage, prove bool) {
	if !prove {
		logStderr("running circuit in witness mode...")
		out, err := zinc.RunCircuit(circuit, input)
		if err != nil {
			fatal(fmt.Sprintf("running circuit: %v", err))
		}
		writeOutput(map[string]json.RawMessage{"output": out})
		return
	}

	logStderr("compiling circuit and running trusted setup...")
	pk, vk, err := zinc.Setup(circuit)
	if err != nil {
		fatal(fmt.Sprintf("setup: %v", err))
	}

	logStderr("proving...")
	proof, out, err := zinc.ProveCircuit(pk, input)
	if err != nil {
		fatal(fmt.Sprintf("proving: %v", err))
	}

	logStderr("verifying...")
	ok, err := zinc.Verify(vk, proof, out)
	if err != nil {
		fatal(fmt.Sprintf("verifying: %v", err))
	}
	if !ok {
		fatal("proof did not verify")
	}
	logStderr("proof verified")

	writeOutput(map[string]json.RawMessage{"output": out})
}

func runMethod(contract *zinc.Contract, method string, input json.RawMessage, storagePath string, prove bool) {
	addr := zinc.Address{}

	if !prove {
		if storagePath != "" {
			fatal("-storage is only meaningful with -prove; witness mode always starts a fresh DummyKeeper address at its zero-valued schema")
		}
		keeper := zinc.NewDummyKeeper()
		logStderr(fmt.Sprintf("running method %q in witness mode...", method))
		out, root, err := zinc.RunMethod(contract, method, input, keeper, addr)
		if err != nil {
			fatal(fmt.Sprintf("running method: %v", err))
		}
		writeOutput(map[string]json.RawMessage{
			"output":       out,
			"storage_root": hexJSON(root),
		})
		return
	}

	if storagePath == "" {
		fatal("-storage is required with -prove for a Contract application")
	}
	preStorage, err := os.ReadFile(storagePath)
	if err != nil {
		fatal(fmt.Sprintf("reading storage file: %v", err))
	}

	logStderr("compiling method and running trusted setup...")
	pk, vk, err := zinc.SetupMethod(contract, method)
	if err != nil {
		fatal(fmt.Sprintf("setup: %v", err))
	}

	logStderr("proving...")
	proof, out, postStorage, err := zinc.ProveMethod(pk, input, preStorage)
	if err != nil {
		fatal(fmt.Sprintf("proving: %v", err))
	}

	logStderr("verifying...")
	ok, err := zinc.VerifyMethod(vk, proof, out, json.RawMessage(preStorage), postStorage)
	if err != nil {
		fatal(fmt.Sprintf("verifying: %v", err))
	}
	if !ok {
		fatal("proof did not verify")
	}
	logStderr("proof verified")

	writeOutput(map[string]json.RawMessage{
		"output":       out,
		"post_storage": postStorage,
	})
}

func runUnitTests(app *zinc.Application) {
	results, err := zinc.RunUnitTests(app)
	if err != nil {
		fatal(fmt.Sprintf("running unit tests: %v", err))
	}
	if len(results) == 0 {
		logStderr("no unit tests declared")
		return
	}
	exitCode := 0
	for _, r := range results {
		line := fmt.Sprintf("test %s ... %s", r.Name, r.Status)
		if r.Err != nil && r.Status != zinc.TestPassed {
			line += fmt.Sprintf(" (%v)", r.Err)
		}
		fmt.Println(line)
		if r.Status == zinc.TestFailed || r.Status == zinc.TestInvalid {
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func readInput(path string) (json.RawMessage, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		return json.RawMessage(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

func hexJSON(b []byte) json.RawMessage {
	raw, _ := json.Marshal(fmt.Sprintf("%x", b))
	return raw
}

func writeOutput(v map[string]json.RawMessage) {
	out, err := json.Marshal(v)
	if err != nil {
		fatal(fmt.Sprintf("encoding output: %v", err))
	}
	os.Stdout.Write(out)
	os.Stdout.Write([]byte("\n"))
}

func logStderr(msg string) {
	fmt.Fprintln(os.Stderr, "zinc-run:", msg)
}

func fatal(msg string) {
	logStderr("ERROR: " + msg)
	os.Exit(1)
}
