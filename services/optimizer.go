package services

import (
	"errors"
	"sort"

	"github.com/Balaga-Lokesh/SAVR-sub000/models"
)

// Optimizer errors, mapped to 400s by the basket handler.
var (
	ErrNoValidProducts = errors.New("no valid products found for given items")
	ErrNoPurchasable   = errors.New("no purchasable items (all out-of-stock or unapproved)")
	ErrNoApprovedMarts = errors.New("no approved marts available for these items")
)

// OptimizerProduct is a product row flattened with its mart, the only view
// of the catalog the optimizer needs.
type OptimizerProduct struct {
	ProductID    int
	MartID       int
	MartName     string
	MartLat      float64
	MartLong     float64
	MartApproved bool
	Name         string
	Price        float64
	Stock        int
	UnitWeightKg float64
	ImageURL     string
}

// OptimizeRequest carries the normalized basket plus the delivery point.
type OptimizeRequest struct {
	Items      []models.BasketItem
	AllowSwaps bool
	AddrLat    float64
	AddrLong   float64
}

type workItem struct {
	name        string
	product     *OptimizerProduct
	qty         int
	weightTotal float64
	unitPrice   float64
}

const maxImproveSweeps = 50

// Optimize builds a multi-mart fulfillment plan for the requested items.
// With swaps allowed it first substitutes each item with the cheapest
// same-name variant at an approved, in-stock mart, then greedily moves items
// between marts while the grand total keeps dropping (total ETA breaks ties).
func Optimize(req OptimizeRequest, catalog []OptimizerProduct) (*models.OptimizationPlan, error) {
	byID := make(map[int]*OptimizerProduct, len(catalog))
	for i := range catalog {
		byID[catalog[i].ProductID] = &catalog[i]
	}

	productMap := make(map[int]*OptimizerProduct)
	for _, it := range req.Items {
		if p, ok := byID[it.ProductID]; ok {
			productMap[it.ProductID] = p
		}
	}
	if len(productMap) == 0 {
		return nil, ErrNoValidProducts
	}

	// Swap candidates share a product name and are purchasable.
	variantsByName := make(map[string][]*OptimizerProduct)
	if req.AllowSwaps {
		wanted := make(map[string]bool)
		for _, p := range productMap {
			wanted[p.Name] = true
		}
		for i := range catalog {
			p := &catalog[i]
			if wanted[p.Name] && p.MartApproved && p.Stock > 0 {
				variantsByName[p.Name] = append(variantsByName[p.Name], p)
			}
		}
	}

	var workItems []*workItem
	for _, it := range req.Items {
		base := productMap[it.ProductID]
		if base == nil {
			continue
		}
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}

		// Per-unit weight: request override > catalog weight > 1.0 default.
		weightEach := 1.0
		if it.WeightKg != nil {
			weightEach = *it.WeightKg
		} else if base.UnitWeightKg > 0 {
			weightEach = base.UnitWeightKg
		}

		if !base.MartApproved || base.Stock <= 0 {
			if !req.AllowSwaps {
				continue
			}
			alts := variantsByName[base.Name]
			if len(alts) == 0 {
				continue
			}
			base = cheapest(alts)
		}

		chosen := base
		if req.AllowSwaps {
			if cand := variantsByName[base.Name]; len(cand) > 0 {
				chosen = cheapest(cand)
			}
		}

		workItems = append(workItems, &workItem{
			name:        chosen.Name,
			product:     chosen,
			qty:         qty,
			weightTotal: weightEach * float64(qty),
			unitPrice:   chosen.Price,
		})
	}
	if len(workItems) == 0 {
		return nil, ErrNoPurchasable
	}

	assignment := make(map[int][]*workItem)
	for _, wi := range workItems {
		if wi.product.MartApproved {
			assignment[wi.product.MartID] = append(assignment[wi.product.MartID], wi)
		}
	}
	if len(assignment) == 0 {
		return nil, ErrNoApprovedMarts
	}

	bestPlan := computeTotals(assignment, req.AddrLat, req.AddrLong)

	if req.AllowSwaps {
		improved := true
		for sweep := 0; improved && sweep < maxImproveSweeps; sweep++ {
			improved = false

			for _, srcMartID := range sortedMartIDs(assignment) {
				for _, itm := range append([]*workItem(nil), assignment[srcMartID]...) {
					for _, cand := range variantsByName[itm.name] {
						if cand.MartID == srcMartID {
							continue
						}
						// The item may already have moved in this sweep.
						if !contains(assignment[srcMartID], itm) {
							continue
						}

						removeItem(assignment, srcMartID, itm)
						moved := &workItem{
							name:        itm.name,
							product:     cand,
							qty:         itm.qty,
							weightTotal: itm.weightTotal,
							unitPrice:   cand.Price,
						}
						assignment[cand.MartID] = append(assignment[cand.MartID], moved)

						newPlan := computeTotals(assignment, req.AddrLat, req.AddrLong)
						if newPlan.GrandTotal < bestPlan.GrandTotal ||
							(newPlan.GrandTotal == bestPlan.GrandTotal && newPlan.EtaTotalMin < bestPlan.EtaTotalMin) {
							bestPlan = newPlan
							improved = true
							itm = moved
							srcMartID = cand.MartID
						} else {
							removeItem(assignment, cand.MartID, moved)
							assignment[srcMartID] = append(assignment[srcMartID], itm)
						}
					}
				}
			}
		}
	}

	return bestPlan, nil
}

func cheapest(cands []*OptimizerProduct) *OptimizerProduct {
	best := cands[0]
	for _, c := range cands[1:] {
		if c.Price < best.Price {
			best = c
		}
	}
	return best
}

func contains(items []*workItem, target *workItem) bool {
	for _, it := range items {
		if it == target {
			return true
		}
	}
	return false
}

func removeItem(assignment map[int][]*workItem, martID int, target *workItem) {
	items := assignment[martID]
	for i, it := range items {
		if it == target {
			assignment[martID] = append(items[:i], items[i+1:]...)
			break
		}
	}
	if len(assignment[martID]) == 0 {
		delete(assignment, martID)
	}
}

func sortedMartIDs(assignment map[int][]*workItem) []int {
	ids := make([]int, 0, len(assignment))
	for id := range assignment {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func computeTotals(assignment map[int][]*workItem, addrLat, addrLong float64) *models.OptimizationPlan {
	plan := &models.OptimizationPlan{}

	for _, martID := range sortedMartIDs(assignment) {
		items := assignment[martID]
		if len(items) == 0 {
			continue
		}
		mart := items[0].product
		if !mart.MartApproved {
			continue
		}

		martWeight := 0.0
		itemsPrice := 0.0
		planItems := make([]models.PlanMartItem, 0, len(items))
		for _, it := range items {
			martWeight += it.weightTotal
			itemsPrice += it.unitPrice * float64(it.qty)
			planItems = append(planItems, models.PlanMartItem{
				ProductID: it.product.ProductID,
				Name:      it.name,
				Qty:       it.qty,
				UnitPrice: it.unitPrice,
				LinePrice: LinePrice(it.unitPrice, it.qty),
				ImageURL:  it.product.ImageURL,
			})
		}

		dist := DistanceKm(addrLat, addrLong, mart.MartLat, mart.MartLong)
		charge := DeliveryCharge(dist, martWeight)
		eta := ETAMinutes(dist)

		plan.ItemsPrice += itemsPrice
		plan.DeliveryTotal += charge
		plan.EtaTotalMin += eta
		plan.Marts = append(plan.Marts, models.PlanMart{
			MartID:         martID,
			MartName:       mart.MartName,
			DistanceKm:     Round3(dist),
			EtaMin:         eta,
			WeightKg:       Round3(martWeight),
			DeliveryCharge: charge,
			Items:          planItems,
		})
	}

	plan.ItemsPrice = Round2(plan.ItemsPrice)
	plan.GrandTotal = Round2(plan.ItemsPrice + float64(plan.DeliveryTotal))
	return plan
}
