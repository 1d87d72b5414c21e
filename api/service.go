// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package api serves read-only JSON-RPC views of a deployed locker system.
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/locker/deploy"
	"github.com/luxfi/locker/ledger"
	"github.com/luxfi/locker/lockmanager"
	"github.com/luxfi/locker/utils/json"
)

// Name is the service name methods are registered under.
const Name = "locker"

var ErrInvalidAddress = errors.New("invalid address")

// Service provides the RPC API for a locker system.
type Service struct {
	log    log.Logger
	ledger *ledger.Ledger
	system *deploy.System
}

func NewService(logger log.Logger, l *ledger.Ledger, system *deploy.System) *Service {
	return &Service{
		log:    logger,
		ledger: l,
		system: system,
	}
}

// NewHandler returns an HTTP handler serving the service over JSON-RPC 2.0.
func NewHandler(s *Service) (http.Handler, error) {
	server := rpc.NewServer()
	server.RegisterCodec(json2.NewCodec(), "application/json")
	server.RegisterCodec(json2.NewCodec(), "application/json;charset=UTF-8")
	return server, server.RegisterService(s, Name)
}

func parseAddress(field, s string) (ids.ShortID, error) {
	addr, err := ids.ShortFromString(s)
	if err != nil {
		return ids.ShortEmpty, fmt.Errorf("%w %s %q: %w", ErrInvalidAddress, field, s, err)
	}
	return addr, nil
}

// EmptyArgs is the argument of methods that take none.
type EmptyArgs struct{}

// AddressArgs names an account.
type AddressArgs struct {
	Address string `json:"address"`
}

// AssetArgs names a token.
type AssetArgs struct {
	Asset string `json:"asset"`
}

// GetPositionReply is the reply for the GetPosition API.
type GetPositionReply struct {
	Escrow       string       `json:"escrow"`
	LockedAmount json.Uint256 `json:"lockedAmount"`
	LockEnd      json.Uint64  `json:"lockEnd"`
	Unlocked     json.Uint256 `json:"unlocked"`
}

// GetPosition returns the shared escrow lock.
//
// Example JSON-RPC call:
//
//	curl -X POST --data '{
//	    "jsonrpc":"2.0",
//	    "id"     :1,
//	    "method" :"locker.GetPosition",
//	    "params" :{}
//	}' -H 'content-type:application/json;' http://127.0.0.1:9650/ext/locker
func (s *Service) GetPosition(_ *http.Request, _ *EmptyArgs, reply *GetPositionReply) error {
	s.log.Debug("API called",
		log.String("service", Name),
		log.String("method", "getPosition"),
	)

	return s.ledger.View(func(ctx *ledger.Context) error {
		p, err := s.system.Proxy.Position(ctx)
		if err != nil {
			return err
		}
		reply.Escrow = p.Escrow.String()
		reply.LockedAmount = json.NewUint256(p.LockedAmount)
		reply.LockEnd = json.Uint64(p.LockEnd)
		reply.Unlocked = json.NewUint256(p.Unlocked)
		return nil
	})
}

// GetSupplyReply is the reply for the GetSupply API.
type GetSupplyReply struct {
	Receipt json.Uint256 `json:"receipt"`
	Staked  json.Uint256 `json:"staked"`
}

// GetSupply returns the receipt token supply and how much of it is staked.
func (s *Service) GetSupply(_ *http.Request, _ *EmptyArgs, reply *GetSupplyReply) error {
	return s.ledger.View(func(ctx *ledger.Context) error {
		receipt, err := s.system.Receipt.TotalSupply(ctx)
		if err != nil {
			return err
		}
		staked, err := s.system.Rewards.TotalSupply(ctx)
		if err != nil {
			return err
		}
		reply.Receipt = json.NewUint256(receipt)
		reply.Staked = json.NewUint256(staked)
		return nil
	})
}

// GetBalanceReply is the reply for the GetBalance API.
type GetBalanceReply struct {
	Receipt json.Uint256 `json:"receipt"`
	Staked  json.Uint256 `json:"staked"`
}

// GetBalance returns an account's liquid and staked receipt tokens.
func (s *Service) GetBalance(_ *http.Request, args *AddressArgs, reply *GetBalanceReply) error {
	s.log.Debug("API called",
		log.String("service", Name),
		log.String("method", "getBalance"),
		log.String("address", args.Address),
	)

	addr, err := parseAddress("address", args.Address)
	if err != nil {
		return err
	}
	return s.ledger.View(func(ctx *ledger.Context) error {
		receipt, err := s.system.Receipt.BalanceOf(ctx, addr)
		if err != nil {
			return err
		}
		staked, err := s.system.Rewards.BalanceOf(ctx, addr)
		if err != nil {
			return err
		}
		reply.Receipt = json.NewUint256(receipt)
		reply.Staked = json.NewUint256(staked)
		return nil
	})
}

type Reward struct {
	Asset  string       `json:"asset"`
	Amount json.Uint256 `json:"amount"`
}

// GetClaimableRewardsReply is the reply for the GetClaimableRewards API.
type GetClaimableRewardsReply struct {
	Rewards []Reward `json:"rewards"`
}

// GetClaimableRewards returns what an account could claim now, per reward
// asset.
func (s *Service) GetClaimableRewards(_ *http.Request, args *AddressArgs, reply *GetClaimableRewardsReply) error {
	addr, err := parseAddress("address", args.Address)
	if err != nil {
		return err
	}
	return s.ledger.View(func(ctx *ledger.Context) error {
		earned, err := s.system.Rewards.ClaimableRewards(ctx, addr)
		if err != nil {
			return err
		}
		reply.Rewards = make([]Reward, len(earned))
		for i, e := range earned {
			reply.Rewards[i] = Reward{
				Asset:  e.Asset.String(),
				Amount: json.NewUint256(e.Amount),
			}
		}
		return nil
	})
}

// GetRewardDataReply is the reply for the GetRewardData API.
type GetRewardDataReply struct {
	RewardRate           json.Uint256 `json:"rewardRate"`
	PeriodFinish         json.Uint64  `json:"periodFinish"`
	LastUpdateTime       json.Uint64  `json:"lastUpdateTime"`
	RewardPerTokenStored json.Uint256 `json:"rewardPerTokenStored"`
}

// GetRewardData returns the accrual state of a reward asset.
func (s *Service) GetRewardData(_ *http.Request, args *AssetArgs, reply *GetRewardDataReply) error {
	asset, err := parseAddress("asset", args.Asset)
	if err != nil {
		return err
	}
	return s.ledger.View(func(ctx *ledger.Context) error {
		r, err := s.system.Rewards.RewardData(ctx, asset)
		if err != nil {
			return err
		}
		reply.RewardRate = json.NewUint256(&r.RewardRate)
		reply.PeriodFinish = json.Uint64(r.PeriodFinish)
		reply.LastUpdateTime = json.Uint64(r.LastUpdateTime)
		reply.RewardPerTokenStored = json.NewUint256(&r.RewardPerTokenStored)
		return nil
	})
}

// GetPlatformHoldingsReply is the reply for the GetPlatformHoldings API.
type GetPlatformHoldingsReply struct {
	FeeBps    json.Uint32 `json:"feeBps"`
	Collector string      `json:"collector"`
}

// GetPlatformHoldings returns the deposit withholding.
func (s *Service) GetPlatformHoldings(_ *http.Request, _ *EmptyArgs, reply *GetPlatformHoldingsReply) error {
	return s.ledger.View(func(ctx *ledger.Context) error {
		feeBps, collector, err := s.system.Depositor.PlatformHoldings(ctx)
		if err != nil {
			return err
		}
		reply.FeeBps = json.Uint32(feeBps)
		reply.Collector = collector.String()
		return nil
	})
}

// GetOperatorReply is the reply for the GetOperator API.
type GetOperatorReply struct {
	Operator string `json:"operator"`
	Shutdown bool   `json:"shutdown"`
}

// GetOperator returns the lock manager's current operator, which may have
// replaced the one deployed with the system.
func (s *Service) GetOperator(_ *http.Request, _ *EmptyArgs, reply *GetOperatorReply) error {
	return s.ledger.View(func(ctx *ledger.Context) error {
		current, err := s.system.Proxy.Operator(ctx)
		if err != nil {
			return err
		}
		reply.Operator = current.String()
		if current == ids.ShortEmpty {
			return nil
		}
		probe, err := ledger.Resolve[lockmanager.OperatorProbe](ctx, current)
		if err != nil {
			return err
		}
		reply.Shutdown, err = probe.IsShutdown(ctx)
		return err
	})
}
