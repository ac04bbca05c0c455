package registry

// Embedded regulatory datasets.  This is a representative subset of the
// federal listings covering the constituents most common on industrial SDS
// sheets; deployments needing the complete tables swap these sources out via
// BuildFromSources.

const (
	citAcute          = "40 CFR 261.33(e)"
	citToxic          = "40 CFR 261.33(f)"
	citCharacteristic = "40 CFR 261.24 Table 1"
	methodTCLP        = "SW-846 Method 1311 (TCLP)"
	unitsMgL          = "mg/L"
)

func embeddedSources() Sources {
	return Sources{
		Acute: []acuteRecord{
			{"107-18-6", AcuteListing{"P005", "Allyl alcohol", citAcute}},
			{"7778-39-4", AcuteListing{"P010", "Arsenic acid", citAcute}},
			{"1327-53-3", AcuteListing{"P012", "Arsenic trioxide", citAcute}},
			{"75-15-0", AcuteListing{"P022", "Carbon disulfide", citAcute}},
			{"544-92-3", AcuteListing{"P029", "Copper cyanide", citAcute}},
			{"460-19-5", AcuteListing{"P031", "Cyanogen", citAcute}},
			{"75-21-8", AcuteListing{"P096", "Ethylene oxide", citAcute}},
			{"74-90-8", AcuteListing{"P063", "Hydrogen cyanide", citAcute}},
			{"628-86-4", AcuteListing{"P065", "Mercury fulminate", citAcute}},
			{"7487-94-7", AcuteListing{"P092", "Mercury(II) chloride", citAcute}},
			{"54-11-5", AcuteListing{"P075", "Nicotine and salts", citAcute}},
			{"98-95-3", AcuteListing{"P077", "p-Nitroaniline", citAcute}},
			{"151-50-8", AcuteListing{"P098", "Potassium cyanide", citAcute}},
			{"107-12-0", AcuteListing{"P101", "Propionitrile", citAcute}},
			{"143-33-9", AcuteListing{"P106", "Sodium cyanide", citAcute}},
			{"7446-18-6", AcuteListing{"P115", "Thallium(I) sulfate", citAcute}},
			{"78-00-2", AcuteListing{"P110", "Tetraethyl lead", citAcute}},
			{"81-81-2", AcuteListing{"P001", "Warfarin >0.3%", citAcute}},
		},
		Toxic: []toxicRecord{
			{"67-64-1", ToxicListing{"U002", "Acetone", citToxic}},
			{"71-43-2", ToxicListing{"U019", "Benzene", citToxic}},
			{"71-36-3", ToxicListing{"U031", "n-Butyl alcohol", citToxic}},
			{"56-23-5", ToxicListing{"U211", "Carbon tetrachloride", citToxic}},
			{"108-90-7", ToxicListing{"U037", "Chlorobenzene", citToxic}},
			{"67-66-3", ToxicListing{"U044", "Chloroform", citToxic}},
			{"110-82-7", ToxicListing{"U056", "Cyclohexane", citToxic}},
			{"84-66-2", ToxicListing{"U088", "Diethyl phthalate", citToxic}},
			{"60-29-7", ToxicListing{"U117", "Ethyl ether", citToxic}},
			{"50-00-0", ToxicListing{"U122", "Formaldehyde", citToxic}},
			{"7664-39-3", ToxicListing{"U134", "Hydrofluoric acid", citToxic}},
			{"7439-97-6", ToxicListing{"U151", "Mercury", citToxic}},
			{"67-56-1", ToxicListing{"U154", "Methanol", citToxic}},
			{"78-93-3", ToxicListing{"U159", "Methyl ethyl ketone", citToxic}},
			{"108-10-1", ToxicListing{"U161", "Methyl isobutyl ketone", citToxic}},
			{"75-09-2", ToxicListing{"U080", "Methylene chloride", citToxic}},
			{"98-95-3", ToxicListing{"U169", "Nitrobenzene", citToxic}},
			{"108-95-2", ToxicListing{"U188", "Phenol", citToxic}},
			{"110-86-1", ToxicListing{"U196", "Pyridine", citToxic}},
			{"127-18-4", ToxicListing{"U210", "Tetrachloroethylene", citToxic}},
			{"108-88-3", ToxicListing{"U220", "Toluene", citToxic}},
			{"71-55-6", ToxicListing{"U226", "1,1,1-Trichloroethane", citToxic}},
			{"79-01-6", ToxicListing{"U228", "Trichloroethylene", citToxic}},
			{"1330-20-7", ToxicListing{"U239", "Xylene", citToxic}},
		},
		Characteristic: []characteristicRecord{
			{"7440-38-2", CharacteristicLimit{"D004", "Arsenic", 5.0, unitsMgL, methodTCLP, citCharacteristic}},
			{"1327-53-3", CharacteristicLimit{"D004", "Arsenic", 5.0, unitsMgL, methodTCLP, citCharacteristic}},
			{"7440-39-3", CharacteristicLimit{"D005", "Barium", 100.0, unitsMgL, methodTCLP, citCharacteristic}},
			{"7440-43-9", CharacteristicLimit{"D006", "Cadmium", 1.0, unitsMgL, methodTCLP, citCharacteristic}},
			{"7440-47-3", CharacteristicLimit{"D007", "Chromium", 5.0, unitsMgL, methodTCLP, citCharacteristic}},
			{"7439-92-1", CharacteristicLimit{"D008", "Lead", 5.0, unitsMgL, methodTCLP, citCharacteristic}},
			// Lead chromate crosses both metal thresholds; its identifier
			// must surface D007 and D008 together.
			{"7758-97-6", CharacteristicLimit{"D007", "Chromium", 5.0, unitsMgL, methodTCLP, citCharacteristic}},
			{"7758-97-6", CharacteristicLimit{"D008", "Lead", 5.0, unitsMgL, methodTCLP, citCharacteristic}},
			{"7439-97-6", CharacteristicLimit{"D009", "Mercury", 0.2, unitsMgL, methodTCLP, citCharacteristic}},
			{"7487-94-7", CharacteristicLimit{"D009", "Mercury", 0.2, unitsMgL, methodTCLP, citCharacteristic}},
			{"7782-49-2", CharacteristicLimit{"D010", "Selenium", 1.0, unitsMgL, methodTCLP, citCharacteristic}},
			{"7440-22-4", CharacteristicLimit{"D011", "Silver", 5.0, unitsMgL, methodTCLP, citCharacteristic}},
			{"71-43-2", CharacteristicLimit{"D018", "Benzene", 0.5, unitsMgL, methodTCLP, citCharacteristic}},
			{"56-23-5", CharacteristicLimit{"D019", "Carbon tetrachloride", 0.5, unitsMgL, methodTCLP, citCharacteristic}},
			{"108-90-7", CharacteristicLimit{"D021", "Chlorobenzene", 100.0, unitsMgL, methodTCLP, citCharacteristic}},
			{"67-66-3", CharacteristicLimit{"D022", "Chloroform", 6.0, unitsMgL, methodTCLP, citCharacteristic}},
			{"78-93-3", CharacteristicLimit{"D035", "Methyl ethyl ketone", 200.0, unitsMgL, methodTCLP, citCharacteristic}},
			{"98-95-3", CharacteristicLimit{"D036", "Nitrobenzene", 2.0, unitsMgL, methodTCLP, citCharacteristic}},
			{"110-86-1", CharacteristicLimit{"D038", "Pyridine", 5.0, unitsMgL, methodTCLP, citCharacteristic}},
			{"127-18-4", CharacteristicLimit{"D039", "Tetrachloroethylene", 0.7, unitsMgL, methodTCLP, citCharacteristic}},
			{"79-01-6", CharacteristicLimit{"D040", "Trichloroethylene", 0.5, unitsMgL, methodTCLP, citCharacteristic}},
			{"75-01-4", CharacteristicLimit{"D043", "Vinyl chloride", 0.2, unitsMgL, methodTCLP, citCharacteristic}},
		},
	}
}
