package entity

const (
	BoardSize = 40

	StartCell    = 0
	JailCell     = 10
	GoToJailCell = 30

	MaxHouses = 4
	Hotel     = 5
)

type Category string

const (
	CategoryEstate      Category = "estate"
	CategoryRailroad    Category = "railroad"
	CategoryUtility     Category = "utility"
	CategoryTax         Category = "tax"
	CategoryCard        Category = "card"
	CategoryJail        Category = "jail"
	CategoryGoToJail    Category = "go_to_jail"
	CategoryFreeParking Category = "free_parking"
	CategoryStart       Category = "start"
)

// Cell is one board position. Owner, Buildings and Mortgaged mutate over the game,
// everything else comes from the static board table.
type Cell struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Category  Category `json:"category"`
	Group     string   `json:"group,omitempty"`
	Price     int      `json:"price"`
	Rent      []int    `json:"rent,omitempty"`
	HouseCost int      `json:"house_cost,omitempty"`
	Mortgage  int      `json:"mortgage_value"`
	Tax       int      `json:"tax,omitempty"`
	Deck      DeckKind `json:"deck,omitempty"`

	OwnerID   string `json:"owner_id"`
	Buildings int    `json:"buildings"`
	Mortgaged bool   `json:"mortgaged"`
}

// Group is a static monopoly group.
type Group struct {
	Name       string `json:"name"`
	Cells      []int  `json:"cells"`
	HousePrice int    `json:"house_price"`
	HotelPrice int    `json:"hotel_price"`
}

func (that *Cell) IsOwnable() bool {
	switch that.Category {
	case CategoryEstate, CategoryRailroad, CategoryUtility:
		return true
	default:
		return false
	}
}

func (that *Cell) IsOwned() bool {
	return that.OwnerID != ""
}

// HasHotel reports whether the cell carries a hotel.
func (that *Cell) HasHotel() bool {
	return that.Buildings == Hotel
}

// Reset reverts the cell to its unowned state.
func (that *Cell) Reset() {
	that.OwnerID = ""
	that.Buildings = 0
	that.Mortgaged = false
}

var (
	RailroadRent = [4]int{25, 50, 100, 200}

	UtilityMultiplier = [2]int{4, 10}

	Groups = map[string]Group{
		"brown":      {Name: "brown", Cells: []int{1, 3}, HousePrice: 50, HotelPrice: 50},
		"light_blue": {Name: "light_blue", Cells: []int{6, 8, 9}, HousePrice: 50, HotelPrice: 50},
		"pink":       {Name: "pink", Cells: []int{11, 13, 14}, HousePrice: 100, HotelPrice: 100},
		"orange":     {Name: "orange", Cells: []int{16, 18, 19}, HousePrice: 100, HotelPrice: 100},
		"red":        {Name: "red", Cells: []int{21, 23, 24}, HousePrice: 150, HotelPrice: 150},
		"yellow":     {Name: "yellow", Cells: []int{26, 27, 29}, HousePrice: 150, HotelPrice: 150},
		"green":      {Name: "green", Cells: []int{31, 32, 34}, HousePrice: 200, HotelPrice: 200},
		"dark_blue":  {Name: "dark_blue", Cells: []int{37, 39}, HousePrice: 200, HotelPrice: 200},
		"railroad":   {Name: "railroad", Cells: []int{5, 15, 25, 35}},
		"utility":    {Name: "utility", Cells: []int{12, 28}},
	}
)

func estate(id int, name, group string, price int, rent ...int) Cell {
	return Cell{
		ID:        id,
		Name:      name,
		Category:  CategoryEstate,
		Group:     group,
		Price:     price,
		Rent:      rent,
		HouseCost: Groups[group].HousePrice,
		Mortgage:  price / 2,
	}
}

func railroad(id int, name string) Cell {
	return Cell{ID: id, Name: name, Category: CategoryRailroad, Group: "railroad", Price: 200, Mortgage: 100}
}

func utility(id int, name string) Cell {
	return Cell{ID: id, Name: name, Category: CategoryUtility, Group: "utility", Price: 150, Mortgage: 75}
}

func tax(id int, name string, amount int) Cell {
	return Cell{ID: id, Name: name, Category: CategoryTax, Tax: amount}
}

func card(id int, deck DeckKind) Cell {
	name := "Chance"
	if deck == DeckCommunityChest {
		name = "Community Chest"
	}
	return Cell{ID: id, Name: name, Category: CategoryCard, Deck: deck}
}

// NewBoard returns a fresh copy of the 40 cell board, index equals position.
func NewBoard() []Cell {
	return []Cell{
		{ID: 0, Name: "Start", Category: CategoryStart},
		estate(1, "Mediterranean Avenue", "brown", 60, 2, 10, 30, 90, 160, 250),
		card(2, DeckCommunityChest),
		estate(3, "Baltic Avenue", "brown", 60, 4, 20, 60, 180, 320, 450),
		tax(4, "Income Tax", 200),
		railroad(5, "Reading Railroad"),
		estate(6, "Oriental Avenue", "light_blue", 100, 6, 30, 90, 270, 400, 550),
		card(7, DeckChance),
		estate(8, "Vermont Avenue", "light_blue", 100, 6, 30, 90, 270, 400, 550),
		estate(9, "Connecticut Avenue", "light_blue", 120, 8, 40, 100, 300, 450, 600),
		{ID: 10, Name: "Jail", Category: CategoryJail},
		estate(11, "St. Charles Place", "pink", 140, 10, 50, 150, 450, 625, 750),
		utility(12, "Electric Company"),
		estate(13, "States Avenue", "pink", 140, 10, 50, 150, 450, 625, 750),
		estate(14, "Virginia Avenue", "pink", 160, 12, 60, 180, 500, 700, 900),
		railroad(15, "Pennsylvania Railroad"),
		estate(16, "St. James Place", "orange", 180, 14, 70, 200, 550, 750, 950),
		card(17, DeckCommunityChest),
		estate(18, "Tennessee Avenue", "orange", 180, 14, 70, 200, 550, 750, 950),
		estate(19, "New York Avenue", "orange", 200, 16, 80, 220, 600, 800, 1000),
		{ID: 20, Name: "Free Parking", Category: CategoryFreeParking},
		estate(21, "Kentucky Avenue", "red", 220, 18, 90, 250, 700, 875, 1050),
		card(22, DeckChance),
		estate(23, "Indiana Avenue", "red", 220, 18, 90, 250, 700, 875, 1050),
		estate(24, "Illinois Avenue", "red", 240, 20, 100, 300, 750, 925, 1100),
		railroad(25, "B. & O. Railroad"),
		estate(26, "Atlantic Avenue", "yellow", 260, 22, 110, 330, 800, 975, 1150),
		estate(27, "Ventnor Avenue", "yellow", 260, 22, 110, 330, 800, 975, 1150),
		utility(28, "Water Works"),
		estate(29, "Marvin Gardens", "yellow", 280, 24, 120, 360, 850, 1025, 1200),
		{ID: 30, Name: "Go To Jail", Category: CategoryGoToJail},
		estate(31, "Pacific Avenue", "green", 300, 26, 130, 390, 900, 1100, 1275),
		estate(32, "North Carolina Avenue", "green", 300, 26, 130, 390, 900, 1100, 1275),
		card(33, DeckCommunityChest),
		estate(34, "Pennsylvania Avenue", "green", 320, 28, 150, 450, 1000, 1200, 1400),
		railroad(35, "Short Line"),
		card(36, DeckChance),
		estate(37, "Park Place", "dark_blue", 350, 35, 175, 500, 1100, 1300, 1500),
		tax(38, "Luxury Tax", 100),
		estate(39, "Boardwalk", "dark_blue", 400, 50, 200, 600, 1400, 1700, 2000),
	}
}
