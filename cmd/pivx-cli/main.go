// Package main implements pivx-cli, a command line JSON-RPC client for a
// running pivxd node. It builds requests from command line arguments, posts
// them to the node and prints the result or error.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/pivx-labs/pivxd/errors"
	"github.com/pivx-labs/pivxd/services/rpc/rpcjson"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "pivx-cli",
		Usage: "Send JSON-RPC commands to a running pivxd node",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Usage: "URL of the pivxd RPC endpoint",
				Value: "http://localhost:51473",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "HTTP request timeout",
				Value: 30 * time.Second,
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "call",
				Usage:     "Invoke a single RPC method, e.g. call getblockcount",
				ArgsUsage: "<method> [params...]",
				Action:    call,
			},
			{
				Name:   "batch",
				Usage:  "Read a JSON array of requests from stdin and send it as one batch",
				Action: batch,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// call builds a single request from the positional arguments. Numeric and
// boolean looking arguments are sent as their JSON types, everything else as
// strings, matching what the node side handlers expect.
func call(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.NewInvalidArgumentError("usage: call <method> [params...]")
	}

	params := make([]interface{}, 0, c.NArg()-1)
	for _, arg := range c.Args().Slice()[1:] {
		params = append(params, coerceArg(arg))
	}

	rawParams, err := json.Marshal(params)
	if err != nil {
		return err
	}

	req := rpcjson.Request{
		Jsonrpc: "1.0",
		Method:  c.Args().First(),
		Params:  rawParams,
		ID:      1,
	}

	body, err := json.Marshal(&req)
	if err != nil {
		return err
	}

	respBody, err := post(c, body)
	if err != nil {
		return err
	}

	var resp rpcjson.Response
	if err = json.Unmarshal(respBody, &resp); err != nil {
		return errors.NewProcessingError("failed to decode response", err)
	}

	if resp.Error != nil {
		return resp.Error
	}

	return printJSON(resp.Result)
}

// batch forwards a prebuilt request array from stdin and prints the response
// array, one line per response.
func batch(c *cli.Context) error {
	body, err := io.ReadAll(os.Stdin)
	if err != nil {
		return err
	}

	respBody, err := post(c, body)
	if err != nil {
		return err
	}

	var responses []rpcjson.Response
	if err = json.Unmarshal(respBody, &responses); err != nil {
		return errors.NewProcessingError("failed to decode batch response", err)
	}

	for _, resp := range responses {
		if resp.Error != nil {
			fmt.Printf("error (id=%v): %s\n", idOf(resp), resp.Error.Message)
			continue
		}

		if err = printJSON(resp.Result); err != nil {
			return err
		}
	}

	return nil
}

func post(c *cli.Context, body []byte) ([]byte, error) {
	client := &http.Client{Timeout: c.Duration("timeout")}

	resp, err := client.Post(c.String("url"), "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewServiceUnavailableError("failed to reach %s", c.String("url"), err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func coerceArg(arg string) interface{} {
	if n, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return n
	}

	if f, err := strconv.ParseFloat(arg, 64); err == nil {
		return f
	}

	if b, err := strconv.ParseBool(arg); err == nil {
		return b
	}

	return arg
}

func idOf(resp rpcjson.Response) interface{} {
	if resp.ID == nil {
		return nil
	}

	return *resp.ID
}

func printJSON(raw json.RawMessage) error {
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		// Not an object or array, print as is.
		fmt.Println(string(raw))
		return nil
	}

	fmt.Println(out.String())

	return nil
}
