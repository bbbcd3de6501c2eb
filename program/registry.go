// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package program

import (
	"github.com/jito-foundation/jito-tip-router-sub002/program/account"
	"github.com/jito-foundation/jito-tip-router-sub002/program/instruction"
	"github.com/jito-foundation/jito-tip-router-sub002/program/reverts"
	"github.com/jito-foundation/jito-tip-router-sub002/program/state"
	"github.com/jito-foundation/jito-tip-router-sub002/restaking"
	"github.com/jito-foundation/jito-tip-router-sub002/tiprouter"
)

func init() {
	define(instruction.SelInitializeVaultRegistry, func(e *env) error { return vaultRegistryLifecycle(e, false) })
	define(instruction.SelReallocVaultRegistry, func(e *env) error { return vaultRegistryLifecycle(e, true) })
	define(instruction.SelAdminRegisterStMint, adminRegisterStMint)
	define(instruction.SelAdminSetStMint, adminSetStMint)
	define(instruction.SelRegisterVault, registerVault)
}

func vaultRegistryLifecycle(e *env, realloc bool) error {
	if err := e.Expect(5); err != nil {
		return err
	}
	cfgInfo, registryInfo, ncnInfo, payerInfo, systemInfo := e.accounts[0], e.accounts[1], e.accounts[2], e.accounts[3], e.accounts[4]
	if err := account.RequireSystemProgram(systemInfo); err != nil {
		return err
	}
	if _, err := e.loadConfig(cfgInfo, ncnInfo.Key, false); err != nil {
		return err
	}

	registry := &state.VaultRegistry{Ncn: ncnInfo.Key}
	initBody := func(bump uint8) error {
		registry.Bump = bump
		return nil
	}
	seeds := state.VaultRegistrySeeds(ncnInfo.Key)
	if realloc {
		return e.grow(payerInfo, registryInfo, ncnInfo.Key, registry, seeds, initBody)
	}
	return e.create(payerInfo, registryInfo, ncnInfo.Key, registry, seeds, initBody)
}

func (e *env) loadRegistryForAdmin() (*state.VaultRegistry, error) {
	if err := e.Expect(5); err != nil {
		return nil, err
	}
	cfgInfo, registryInfo, ncnInfo, adminInfo := e.accounts[0], e.accounts[1], e.accounts[2], e.accounts[4]
	if _, err := e.loadConfig(cfgInfo, ncnInfo.Key, false); err != nil {
		return nil, err
	}
	registry, err := load[state.VaultRegistry](e, registryInfo, true, state.VaultRegistrySeeds(ncnInfo.Key))
	if err != nil {
		return nil, err
	}
	if err := requireNcnAdmin(ncnInfo, adminInfo); err != nil {
		return nil, err
	}
	return registry, nil
}

func adminRegisterStMint(e *env) error {
	var args instruction.AdminRegisterStMintArgs
	if err := e.Args(&args); err != nil {
		return err
	}
	registry, err := e.loadRegistryForAdmin()
	if err != nil {
		return err
	}
	mint := e.accounts[3].Key

	entry := state.StMintEntry{
		StMint:              mint,
		NcnFeeGroup:         args.NcnFeeGroup,
		RewardMultiplierBps: args.RewardMultiplierBps,
	}
	if args.Feed != nil {
		entry.Feed = *args.Feed
	}
	if args.NoFeedWeight != nil {
		entry.NoFeedWeight = *args.NoFeedWeight
	}
	if !entry.HasFeed() && entry.NoFeedWeight == 0 {
		entry.NoFeedWeight = tiprouter.WeightPrecision
	}
	if err := registry.RegisterStMint(entry); err != nil {
		return err
	}
	e.ctx.Log("st mint registered", "mint", mint, "group", entry.NcnFeeGroup)
	return account.Store(e.accounts[1], registry)
}

func adminSetStMint(e *env) error {
	var args instruction.AdminSetStMintArgs
	if err := e.Args(&args); err != nil {
		return err
	}
	registry, err := e.loadRegistryForAdmin()
	if err != nil {
		return err
	}
	mint := e.accounts[3].Key
	if err := registry.UpdateStMint(mint, state.StMintUpdate{
		NcnFeeGroup:         args.NcnFeeGroup,
		RewardMultiplierBps: args.RewardMultiplierBps,
		Feed:                args.Feed,
		NoFeedWeight:        args.NoFeedWeight,
	}); err != nil {
		return err
	}
	e.ctx.Log("st mint updated", "mint", mint)
	return account.Store(e.accounts[1], registry)
}

func registerVault(e *env) error {
	if err := e.Expect(5); err != nil {
		return err
	}
	cfgInfo, registryInfo, ncnInfo, vaultInfo, ticketInfo := e.accounts[0], e.accounts[1], e.accounts[2], e.accounts[3], e.accounts[4]

	if _, err := e.loadConfig(cfgInfo, ncnInfo.Key, false); err != nil {
		return err
	}
	registry, err := load[state.VaultRegistry](e, registryInfo, true, state.VaultRegistrySeeds(ncnInfo.Key))
	if err != nil {
		return err
	}
	vault, err := restaking.LoadVault(vaultInfo)
	if err != nil {
		return err
	}
	ticket, err := restaking.LoadNcnVaultTicket(ticketInfo, ncnInfo.Key, vaultInfo.Key)
	if err != nil {
		return err
	}
	if !ticket.State.IsActive(e.slot()) {
		return reverts.ErrVaultNotActive.Withf("%v", vaultInfo.Key)
	}

	added, err := registry.RegisterVault(vaultInfo.Key, vault.SupportedMint, vault.Index, e.slot())
	if err != nil {
		return err
	}
	if !added {
		e.ctx.Log("vault already registered", "vault", vaultInfo.Key)
		return nil
	}
	e.ctx.Log("vault registered", "vault", vaultInfo.Key, "mint", vault.SupportedMint)
	return account.Store(registryInfo, registry)
}
