// Package demo ships intentionally vulnerable sample contracts for each
// supported language.
package demo

import (
	"fmt"
	"sort"
)

type Contract struct {
	Name        string `json:"name"`
	Language    string `json:"language"`
	Description string `json:"description"`
	Source      string `json:"-"`
}

var contracts = map[string]Contract{
	"vulnerable_vault": {
		Name:        "vulnerable_vault",
		Language:    "move",
		Description: "Move vault module whose withdraw entry mutates global balances without any signer authorization.",
		Source: `module 0x42::vault {
    use std::signer;

    struct Vault has key {
        balance: u64,
    }

    struct AdminCap has copy, drop, store {}

    public entry fun deposit(account: &signer, amount: u64) acquires Vault {
        let addr = signer::address_of(account);
        let vault = borrow_global_mut<Vault>(addr);
        vault.balance = vault.balance + amount;
    }

    public entry fun withdraw(target: address, amount: u64) acquires Vault {
        let vault = borrow_global_mut<Vault>(target);
        vault.balance = vault.balance - amount;
    }
}
`,
	},
	"phishable_wallet": {
		Name:        "phishable_wallet",
		Language:    "solidity",
		Description: "Solidity wallet authorizing with tx.origin, paying out with transfer, and exposing an unguarded sweep.",
		Source: `pragma solidity ^0.8.19;

contract PhishableWallet {
    address public owner;
    address public implementation;

    constructor() {
        owner = msg.sender;
    }

    function withdraw(uint256 amount) public {
        require(tx.origin == owner, "not owner");
        payable(msg.sender).transfer(amount);
    }

    function sweep(address payable to) external {
        to.transfer(address(this).balance);
    }

    function upgrade(address target, bytes calldata data) external {
        (bool ok, ) = target.delegatecall(data);
        require(ok, "upgrade failed");
    }

    function lottery() public payable {
        if (block.timestamp % 2 == 0) {
            payable(msg.sender).transfer(msg.value * 2);
        }
    }
}
`,
	},
	"unchecked_program": {
		Name:        "unchecked_program",
		Language:    "rust",
		Description: "Solana program moving lamports with no signer check, raw arithmetic, and panic-on-unwrap error handling.",
		Source: `use anchor_lang::prelude::*;

#[program]
pub mod unchecked_program {
    use super::*;

    pub fn payout(ctx: Context<Payout>, amount: u64) -> Result<()> {
        let vault = &mut ctx.accounts.vault;
        **vault.to_account_info().try_borrow_mut_lamports()? -= amount;
        let recipient = ctx.accounts.recipient.to_account_info();
        **recipient.try_borrow_mut_lamports()? += amount;
        let total_paid = vault.total_paid + amount;
        vault.total_paid = total_paid;
        let config = ctx.accounts.config.try_borrow_data().unwrap();
        msg!("config len {}", config.len());
        Ok(())
    }
}

#[derive(Accounts)]
pub struct Payout<'info> {
    #[account(mut)]
    pub vault: Account<'info, Vault>,
    pub recipient: AccountInfo<'info>,
    pub config: AccountInfo<'info>,
}

#[account]
pub struct Vault {
    pub total_paid: u64,
}
`,
	},
}

// Get returns a demo contract by name.
func Get(name string) (Contract, error) {
	c, ok := contracts[name]
	if !ok {
		return Contract{}, fmt.Errorf("unknown demo contract %q", name)
	}
	return c, nil
}

// List returns all demo contracts sorted by name.
func List() []Contract {
	out := make([]Contract, 0, len(contracts))
	for _, c := range contracts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
