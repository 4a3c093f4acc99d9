// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package postal

import (
	"buf.build/go/postal/internal/dictionary"
)

// ComponentMask selects a subset of the address components, for filtering
// expansion alternatives.
type ComponentMask = dictionary.ComponentMask

// The closed address component set.
const (
	ComponentHouseNumber   = dictionary.ComponentHouseNumber
	ComponentRoad          = dictionary.ComponentRoad
	ComponentUnit          = dictionary.ComponentUnit
	ComponentLevel         = dictionary.ComponentLevel
	ComponentStaircase     = dictionary.ComponentStaircase
	ComponentEntrance      = dictionary.ComponentEntrance
	ComponentPOBox         = dictionary.ComponentPOBox
	ComponentPostcode      = dictionary.ComponentPostcode
	ComponentSuburb        = dictionary.ComponentSuburb
	ComponentCityDistrict  = dictionary.ComponentCityDistrict
	ComponentCity          = dictionary.ComponentCity
	ComponentIsland        = dictionary.ComponentIsland
	ComponentStateDistrict = dictionary.ComponentStateDistrict
	ComponentState         = dictionary.ComponentState
	ComponentCountryRegion = dictionary.ComponentCountryRegion
	ComponentCountry       = dictionary.ComponentCountry
	ComponentWorldRegion   = dictionary.ComponentWorldRegion

	// ComponentAny selects every component.
	ComponentAny = dictionary.ComponentAny
)

// ComponentNames lists the canonical label strings a parser model assigns,
// in mask bit order.
var ComponentNames = []string{
	"house_number",
	"road",
	"unit",
	"level",
	"staircase",
	"entrance",
	"po_box",
	"postcode",
	"suburb",
	"city_district",
	"city",
	"island",
	"state_district",
	"state",
	"country_region",
	"country",
	"world_region",
}
