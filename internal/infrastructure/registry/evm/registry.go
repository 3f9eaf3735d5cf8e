package registryevm

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/holiman/uint256"
	log "github.com/sirupsen/logrus"

	"github.com/nftswap-network/swapd/internal/core/domain"
	"github.com/nftswap-network/swapd/internal/core/ports"
)

// Minimal ERC-721 surface: ownership lookup and delegated transfer. The
// daemon acts as the approved operator of both parties.
const erc721ABI = `[
	{
		"name": "ownerOf",
		"type": "function",
		"stateMutability": "view",
		"inputs": [{"name": "tokenId", "type": "uint256"}],
		"outputs": [{"name": "owner", "type": "address"}]
	},
	{
		"name": "isApprovedForAll",
		"type": "function",
		"stateMutability": "view",
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "operator", "type": "address"}
		],
		"outputs": [{"name": "approved", "type": "bool"}]
	},
	{
		"name": "transferFrom",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "from", "type": "address"},
			{"name": "to", "type": "address"},
			{"name": "tokenId", "type": "uint256"}
		],
		"outputs": []
	}
]`

type assetRegistry struct {
	client      *ethclient.Client
	registryAbi abi.ABI
	operatorKey *ecdsa.PrivateKey
	signer      types.Signer
}

// NewAssetRegistry returns a ports.AssetRegistry talking to ERC-721
// collections on an EVM chain. The operator key signs the transferFrom
// transactions; both swap parties must have approved the operator address
// on their collections beforehand.
func NewAssetRegistry(
	ctx context.Context, rpcURL, operatorKeyHex string,
) (ports.AssetRegistry, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dialing registry rpc: %w", err)
	}

	registryAbi, err := abi.JSON(strings.NewReader(erc721ABI))
	if err != nil {
		return nil, fmt.Errorf("parsing registry abi: %w", err)
	}

	operatorKey, err := crypto.HexToECDSA(
		strings.TrimPrefix(operatorKeyHex, "0x"),
	)
	if err != nil {
		return nil, fmt.Errorf("parsing operator key: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching chain id: %w", err)
	}

	return &assetRegistry{
		client:      client,
		registryAbi: registryAbi,
		operatorKey: operatorKey,
		signer:      types.LatestSignerForChainID(chainID),
	}, nil
}

func (r *assetRegistry) OwnerOf(
	ctx context.Context, collection string, assetId *uint256.Int,
) (string, error) {
	data, err := r.registryAbi.Pack("ownerOf", assetId.ToBig())
	if err != nil {
		return "", fmt.Errorf("packing ownerOf: %w", err)
	}

	contract := common.HexToAddress(collection)
	output, err := r.client.CallContract(ctx, ethereum.CallMsg{
		To:   &contract,
		Data: data,
	}, nil)
	if err != nil {
		// ownerOf reverts for tokens that were never minted or were burned.
		return "", domain.ErrUnknownAsset
	}

	values, err := r.registryAbi.Unpack("ownerOf", output)
	if err != nil {
		return "", fmt.Errorf("unpacking ownerOf result: %w", err)
	}
	owner := values[0].(common.Address)
	return strings.ToLower(owner.Hex()), nil
}

func (r *assetRegistry) IsApprovedForAll(
	ctx context.Context, collection, owner string,
) (bool, error) {
	operator := crypto.PubkeyToAddress(r.operatorKey.PublicKey)
	data, err := r.registryAbi.Pack(
		"isApprovedForAll", common.HexToAddress(owner), operator,
	)
	if err != nil {
		return false, fmt.Errorf("packing isApprovedForAll: %w", err)
	}

	contract := common.HexToAddress(collection)
	output, err := r.client.CallContract(ctx, ethereum.CallMsg{
		To:   &contract,
		Data: data,
	}, nil)
	if err != nil {
		return false, fmt.Errorf("calling isApprovedForAll: %w", err)
	}

	values, err := r.registryAbi.Unpack("isApprovedForAll", output)
	if err != nil {
		return false, fmt.Errorf("unpacking isApprovedForAll result: %w", err)
	}
	return values[0].(bool), nil
}

func (r *assetRegistry) TransferFrom(
	ctx context.Context, collection, from, to string, assetId *uint256.Int,
) error {
	data, err := r.registryAbi.Pack(
		"transferFrom",
		common.HexToAddress(from), common.HexToAddress(to), assetId.ToBig(),
	)
	if err != nil {
		return fmt.Errorf("packing transferFrom: %w", err)
	}

	contract := common.HexToAddress(collection)
	operator := crypto.PubkeyToAddress(r.operatorKey.PublicKey)

	nonce, err := r.client.PendingNonceAt(ctx, operator)
	if err != nil {
		return fmt.Errorf("fetching operator nonce: %w", err)
	}
	gasPrice, err := r.client.SuggestGasPrice(ctx)
	if err != nil {
		return fmt.Errorf("fetching gas price: %w", err)
	}
	gasLimit, err := r.client.EstimateGas(ctx, ethereum.CallMsg{
		From: operator,
		To:   &contract,
		Data: data,
	})
	if err != nil {
		// Estimation fails when the transfer would revert, eg. from is not
		// the owner anymore or the approval was withdrawn.
		return fmt.Errorf("transfer would revert: %w", err)
	}

	tx := types.NewTransaction(nonce, contract, nil, gasLimit, gasPrice, data)
	signedTx, err := types.SignTx(tx, r.signer, r.operatorKey)
	if err != nil {
		return fmt.Errorf("signing transfer: %w", err)
	}

	if err := r.client.SendTransaction(ctx, signedTx); err != nil {
		return fmt.Errorf("broadcasting transfer: %w", err)
	}

	receipt, err := bind.WaitMined(ctx, r.client, signedTx)
	if err != nil {
		return fmt.Errorf("waiting for transfer confirmation: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("transfer reverted in tx %s", signedTx.Hash().Hex())
	}

	log.WithFields(log.Fields{
		"collection": collection,
		"asset":      assetId.Hex(),
		"tx":         signedTx.Hash().Hex(),
	}).Debug("asset transferred")
	return nil
}
