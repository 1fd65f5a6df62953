package analyzer

import (
	"encoding/base64"
	"encoding/binary"
	"regexp"
	"strconv"
	"strings"

	"github.com/mr-tron/base58"

	"solana-sandwich-engine/internal/domain"
)

// Known DEX program IDs.
const (
	// RaydiumAMMV4 is the Raydium AMM v4 program ID.
	RaydiumAMMV4 = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	// PumpFun is the pump.fun program ID.
	PumpFun = "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"
)

// WSOL is the Wrapped SOL mint address.
const WSOL = "So11111111111111111111111111111111111111112"

// venueClassifier extracts a swap descriptor from one venue's log lines.
type venueClassifier interface {
	// Classify returns the first swap the logs describe, or false when the
	// transaction does not touch this venue's swap path.
	Classify(ev domain.CandidateEvent) (*domain.SwapDescriptor, bool)
}

// Classifier turns candidate events into swap descriptors across all
// supported venues.
type Classifier struct {
	classifiers []venueClassifier
}

// NewClassifier creates a classifier with the default venue set registered.
func NewClassifier() *Classifier {
	return &Classifier{
		classifiers: []venueClassifier{
			newRaydiumClassifier(),
			newPumpFunClassifier(),
		},
	}
}

// Classify returns the swap descriptor for the event, or false when no
// registered venue recognizes the logs as a swap.
func (c *Classifier) Classify(ev domain.CandidateEvent) (*domain.SwapDescriptor, bool) {
	for _, vc := range c.classifiers {
		if desc, ok := vc.Classify(ev); ok {
			return desc, true
		}
	}
	return nil, false
}

// raydiumClassifier reads Raydium ray_log entries. A swap ray_log carries
// discriminator(1) + ammId(32) + inputMint(32) + outputMint(32) +
// amountIn(8) + amountOut(8), base64-encoded after the "ray_log: " marker.
type raydiumClassifier struct {
	rayLogPattern *regexp.Regexp
	invokePattern *regexp.Regexp
}

func newRaydiumClassifier() *raydiumClassifier {
	return &raydiumClassifier{
		rayLogPattern: regexp.MustCompile(`ray_log: ([A-Za-z0-9+/=]+)`),
		invokePattern: regexp.MustCompile(`Program ` + RaydiumAMMV4 + ` invoke`),
	}
}

// Raydium swap instruction discriminators.
func isRaydiumSwapLog(data []byte) bool {
	if len(data) < 1 {
		return false
	}
	// 0x09 = SwapBaseIn, 0x0b = SwapBaseOut
	return data[0] == 0x09 || data[0] == 0x0b
}

func (c *raydiumClassifier) Classify(ev domain.CandidateEvent) (*domain.SwapDescriptor, bool) {
	invoked := false
	for _, line := range ev.Logs {
		if c.invokePattern.MatchString(line) {
			invoked = true
			break
		}
	}
	if !invoked {
		return nil, false
	}

	for _, line := range ev.Logs {
		matches := c.rayLogPattern.FindStringSubmatch(line)
		if matches == nil {
			continue
		}

		data, err := base64.StdEncoding.DecodeString(matches[1])
		if err != nil {
			continue
		}
		if !isRaydiumSwapLog(data) {
			continue
		}
		if len(data) < 113 { // 1 + 32 + 32 + 32 + 8 + 8
			continue
		}

		return &domain.SwapDescriptor{
			Venue:       domain.VenueRaydium,
			Pool:        base58.Encode(data[1:33]),
			InputMint:   base58.Encode(data[33:65]),
			OutputMint:  base58.Encode(data[65:97]),
			AmountIn:    binary.LittleEndian.Uint64(data[97:105]),
			TxSignature: ev.Signature,
		}, true
	}

	return nil, false
}

// pumpFunClassifier scans invoke-scoped pump.fun logs for Buy/Sell
// instructions and their structured fields.
type pumpFunClassifier struct {
	buyPattern   *regexp.Regexp
	sellPattern  *regexp.Regexp
	mintPattern  *regexp.Regexp
	curvePattern *regexp.Regexp
	solPattern   *regexp.Regexp
}

func newPumpFunClassifier() *pumpFunClassifier {
	return &pumpFunClassifier{
		buyPattern:   regexp.MustCompile(`Program log: Instruction: Buy`),
		sellPattern:  regexp.MustCompile(`Program log: Instruction: Sell`),
		mintPattern:  regexp.MustCompile(`mint=([A-Za-z0-9]{32,44})`),
		curvePattern: regexp.MustCompile(`bonding_curve=([A-Za-z0-9]{32,44})`),
		solPattern:   regexp.MustCompile(`sol_amount[=:]?\s*(\d+)`),
	}
}

func (c *pumpFunClassifier) Classify(ev domain.CandidateEvent) (*domain.SwapDescriptor, bool) {
	var mint, curve string
	var solAmount uint64
	var isBuy, isSell bool
	inPumpFun := false

	for _, line := range ev.Logs {
		if strings.Contains(line, "Program "+PumpFun+" invoke") {
			inPumpFun = true
			continue
		}
		if strings.Contains(line, "Program "+PumpFun+" success") ||
			strings.Contains(line, "Program "+PumpFun+" failed") {
			inPumpFun = false
			continue
		}
		if !inPumpFun {
			continue
		}

		if m := c.mintPattern.FindStringSubmatch(line); m != nil {
			mint = m[1]
		}
		if m := c.curvePattern.FindStringSubmatch(line); m != nil {
			curve = m[1]
		}
		if m := c.solPattern.FindStringSubmatch(line); m != nil {
			if parsed, err := strconv.ParseUint(m[1], 10, 64); err == nil {
				solAmount = parsed
			}
		}
		if c.buyPattern.MatchString(line) {
			isBuy = true
		}
		if c.sellPattern.MatchString(line) {
			isSell = true
		}
	}

	if !isBuy && !isSell {
		return nil, false
	}
	if mint == "" || curve == "" {
		return nil, false
	}

	desc := &domain.SwapDescriptor{
		Venue:       domain.VenuePumpFun,
		Pool:        curve,
		AmountIn:    solAmount,
		TxSignature: ev.Signature,
	}
	if isBuy {
		desc.InputMint = WSOL
		desc.OutputMint = mint
	} else {
		desc.InputMint = mint
		desc.OutputMint = WSOL
	}
	return desc, true
}
