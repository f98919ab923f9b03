package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/btcsuite/btclog"
	flags "github.com/jessevdk/go-flags"

	"github.com/lemois-1337/karlsenvault/config"
	"github.com/lemois-1337/karlsenvault/device"
	"github.com/lemois-1337/karlsenvault/network"
	"github.com/lemois-1337/karlsenvault/tx"
	"github.com/lemois-1337/karlsenvault/vault"
)

// options are the global flags shared by every subcommand.
type options struct {
	Network  string `long:"network" default:"mainnet" choice:"mainnet" choice:"testnet" description:"Network to operate on"`
	RelayURL string `long:"relay-url" description:"Override the relay REST endpoint"`
	Debug    bool   `long:"debug" description:"Enable debug logging to stderr"`
}

var opts options

// setup resolves configuration and builds the shared collaborators.
func setup() (*config.Params, *vault.Vault, *device.Session, error) {
	env := map[string]string{
		config.EnvRelayURL: os.Getenv(config.EnvRelayURL),
	}
	params, err := config.Resolve(&config.Params{RelayURL: opts.RelayURL}, env, opts.Network)
	if err != nil {
		return nil, nil, nil, err
	}

	if opts.Debug {
		backend := btclog.NewBackend(os.Stderr)
		level, _ := btclog.LevelFromString("debug")
		for tag, use := range map[string]func(btclog.Logger){
			"TXBL": tx.UseLogger,
			"DEVC": device.UseLogger,
			"RELY": network.UseLogger,
		} {
			logger := backend.Logger(tag)
			logger.SetLevel(level)
			use(logger)
		}
	}

	relay := network.NewRelayClient(params.RelayURL)
	session := device.NewSession(device.RegistryOpener{})

	return params, vault.New(params, relay, session), session, nil
}

type balanceCmd struct {
	Args struct {
		Address string `positional-arg-name:"address" required:"true"`
	} `positional-args:"true"`
}

func (c *balanceCmd) Execute(_ []string) error {
	_, v, _, err := setup()
	if err != nil {
		return err
	}
	balance, err := v.Balance(context.Background(), c.Args.Address)
	if err != nil {
		return fmt.Errorf("%s: %w", vault.UserMessage(err), err)
	}
	fmt.Printf("%d sompi\n", balance)
	return nil
}

type utxosCmd struct {
	Args struct {
		Address string `positional-arg-name:"address" required:"true"`
	} `positional-args:"true"`
}

func (c *utxosCmd) Execute(_ []string) error {
	_, v, _, err := setup()
	if err != nil {
		return err
	}
	utxos, err := v.UTXOs(context.Background(), c.Args.Address)
	if err != nil {
		return fmt.Errorf("%s: %w", vault.UserMessage(err), err)
	}
	for _, u := range utxos {
		fmt.Printf("%s:%d\t%d\n", u.TxID, u.Index, u.Amount)
	}
	return nil
}

type sendCmd struct {
	Amount      uint64 `long:"amount" required:"true" description:"Amount in sompi"`
	To          string `long:"to" required:"true" description:"Destination address"`
	From        string `long:"from" required:"true" description:"Funded address to spend from"`
	Path        string `long:"path" required:"true" description:"Derivation path of the funded address, e.g. 44'/121337'/0'/0/0"`
	Change      string `long:"change" required:"true" description:"Change address"`
	ChangeIndex uint32 `long:"change-index" description:"Derivation index of the change address"`
	FeeIncluded bool   `long:"fee-included" description:"Pay the fee out of the amount"`
	Transport   string `long:"transport" default:"usb" choice:"usb" choice:"bluetooth" description:"Device transport"`
}

func (c *sendCmd) Execute(_ []string) error {
	_, v, session, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = session.Release() }()

	res, err := v.Send(context.Background(), vault.SendRequest{
		Amount:      c.Amount,
		To:          c.To,
		From:        c.From,
		Path:        c.Path,
		Change:      c.Change,
		ChangeIndex: c.ChangeIndex,
		FeeIncluded: c.FeeIncluded,
		Transport:   device.Kind(strings.ToLower(c.Transport)),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", vault.UserMessage(err), err)
	}
	fmt.Printf("submitted %s (fee %d sompi)\n", res.TransactionID, res.Fee)
	return nil
}

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	_, _ = parser.AddCommand("balance", "Show an address balance",
		"Query the relay for the confirmed balance of an address.", &balanceCmd{})
	_, _ = parser.AddCommand("utxos", "List spendable outputs",
		"Query the relay for the unspent outputs of an address.", &utxosCmd{})
	_, _ = parser.AddCommand("send", "Build, sign, and submit a transfer",
		"Select coins, build a transaction, sign it on the device, and submit it.", &sendCmd{})

	if _, err := parser.Parse(); err != nil {
		if flagErr, ok := err.(*flags.Error); ok && flagErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
