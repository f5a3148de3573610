package models

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

type Payment struct {
	ID          string        `json:"id" gorm:"primaryKey;size:191"`
	UserID      string        `json:"user_id" gorm:"not null;size:191;index"`
	Points      int           `json:"points" gorm:"not null"`
	Price       float64       `json:"price" gorm:"not null"`
	PaypalEmail string        `json:"paypal_email" gorm:"size:255"`
	Status      PaymentStatus `json:"status" gorm:"size:20;default:'pending';index"`
	CreatedAt   time.Time     `json:"created_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

// PointsPackage is one entry of the fixed price table.
type PointsPackage struct {
	Points int     `json:"points"`
	Price  float64 `json:"price"`
}

const (
	PricePerPoint   = 0.25
	minPackage      = 100
	maxPackage      = 500
	packageStepSize = 50
)

// PointsPackages returns the closed price table: 100..500 points in steps of 50.
func PointsPackages() []PointsPackage {
	var packages []PointsPackage
	for points := minPackage; points <= maxPackage; points += packageStepSize {
		packages = append(packages, PointsPackage{Points: points, Price: float64(points) * PricePerPoint})
	}
	return packages
}

// LookupPackage finds the package for an amount of points.
func LookupPackage(points int) (PointsPackage, bool) {
	for _, p := range PointsPackages() {
		if p.Points == points {
			return p, true
		}
	}
	return PointsPackage{}, false
}

type PurchaseResult struct {
	PaymentID   string  `json:"payment_id"`
	Points      int     `json:"points"`
	Price       float64 `json:"price"`
	PaypalEmail string  `json:"paypal_email"`
}

type ConfirmResult struct {
	PointsAdded int `json:"points_added"`
	NewBalance  int `json:"new_balance"`
}
