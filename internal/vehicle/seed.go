package vehicle

import (
	"context"

	"gorm.io/gorm"
)

// defaultInventory 开发/演示环境的样例库存（价格单位：分）。
var defaultInventory = []Vehicle{
	{Manufacturer: "Ford", Model: "Mustang", Year: 2020, Price: 275000000, Stock: 2},
	{Manufacturer: "Tata", Model: "Altroz", Year: 2023, Price: 120000000, Stock: 5},
	{Manufacturer: "Tata", Model: "Nexon", Year: 2023, Price: 135000000, Stock: 4},
	{Manufacturer: "Tata", Model: "Tiago", Year: 2023, Price: 110000000, Stock: 6},
	{Manufacturer: "Toyota", Model: "Urban Cruiser Taisor", Year: 2023, Price: 170000000, Stock: 3},
	{Manufacturer: "Toyota", Model: "Glanza", Year: 2023, Price: 160000000, Stock: 4},
	{Manufacturer: "Hyundai", Model: "Creta", Year: 2022, Price: 210000000, Stock: 3},
	{Manufacturer: "Mahindra", Model: "XUV700", Year: 2023, Price: 260000000, Stock: 2},
	{Manufacturer: "Kia", Model: "Seltos", Year: 2020, Price: 195000000, Stock: 2},
	{Manufacturer: "Nissan", Model: "Magnite", Year: 2022, Price: 165000000, Stock: 4},
	{Manufacturer: "Toyota", Model: "Vellfire", Year: 2023, Price: 350000000, Stock: 1},
	{Manufacturer: "Renault", Model: "Triber", Year: 2023, Price: 125000000, Stock: 5},
	{Manufacturer: "Kia", Model: "EV9", Year: 2023, Price: 400000000, Stock: 1},
}

// SeedDefault 库存表为空时写入样例数据（幂等）。
func SeedDefault(ctx context.Context, db *gorm.DB) error {
	repo := NewRepo(db)
	total, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}

	for i := range defaultInventory {
		v := defaultInventory[i]
		v.Status = StatusAvailable
		if err := repo.Create(ctx, &v); err != nil {
			return err
		}
	}
	return nil
}
