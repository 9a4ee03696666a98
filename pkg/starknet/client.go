package starknet

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
)

const (
	// ChainIDMainnet is "SN_MAIN" encoded as a felt.
	ChainIDMainnet = "0x534e5f4d41494e"

	blockTagLatest = "latest"

	// CONTRACT_NOT_FOUND error code returned by starknet nodes
	codeContractNotFound = 20
)

// Client is a json-rpc client of a starknet full node.
type Client struct {
	rpc *rpc.Client
}

func Dial(rawurl string) (*Client, error) {
	rpcClient, err := rpc.DialContext(context.Background(), rawurl)
	if err != nil {
		return nil, errors.Wrap(err, "failed to dial a starknet node")
	}
	return &Client{rpc: rpcClient}, nil
}

func NewClient(rpcClient *rpc.Client) *Client {
	return &Client{rpc: rpcClient}
}

func (c *Client) Close() {
	c.rpc.Close()
}

func (c *Client) ChainID(ctx context.Context) (string, error) {
	var result string
	if err := c.rpc.CallContext(ctx, &result, "starknet_chainId"); err != nil {
		return "", errors.Wrap(err, "failed to query a chain id")
	}
	return result, nil
}

type callRequest struct {
	ContractAddress    string   `json:"contract_address"`
	EntryPointSelector string   `json:"entry_point_selector"`
	Calldata           []string `json:"calldata"`
}

func (c *Client) CallContract(ctx context.Context, call Call) ([]string, error) {
	req := callRequest{
		ContractAddress:    call.ContractAddress,
		EntryPointSelector: EntrypointSelector(call.Entrypoint),
		Calldata:           call.Calldata,
	}
	if req.Calldata == nil {
		req.Calldata = []string{}
	}

	var result []string
	if err := c.rpc.CallContext(ctx, &result, "starknet_call", req, blockTagLatest); err != nil {
		return nil, errors.Wrapf(err, "failed to call %s on %s", call.Entrypoint, call.ContractAddress)
	}
	return result, nil
}

// IsContractNotFound reports whether the node rejected a call because the
// target contract does not exist on the queried network.
func IsContractNotFound(err error) bool {
	if err == nil {
		return false
	}
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == codeContractNotFound {
		return true
	}
	return strings.Contains(err.Error(), "Contract not found")
}
