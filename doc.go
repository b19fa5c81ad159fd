// Package wealth values a portfolio split between high-risk and low-risk
// assets and decides when it needs to be rebalanced.
//
// The core functionalities include:
//   - Price sources: a registry of providers (Yahoo Finance, CoinGecko, fixed
//     prices) that quote each asset in the portfolio currency.
//   - Valuation: the value of every holding and of each risk bucket.
//   - Rebalance evaluation: the drift of the high-risk share from the target
//     and whether it exceeds the tolerance.
//   - Dashboard: a stateless refresh combining the three, with the error that
//     aborted it, ready to be rendered.
//
// This package serves as the foundational logic for the `hsw` command-line
// tool and its web dashboard.
package wealth
