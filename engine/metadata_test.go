package engine_test

import (
	"testing"

	"github.com/MrSapps/SUDM-sub000/engine"
	"github.com/stretchr/testify/require"
)

func TestParseMetadataAllPrefixCombinations(t *testing.T) {
	require.Equal(t, engine.Metadata{IsFirstInEntity: true, IsLastInEntity: true, CharacterID: 3, EntityName: "Cloud"},
		engine.ParseMetadata("start_end_3_Cloud"))
	require.Equal(t, engine.Metadata{IsFirstInEntity: true, CharacterID: 3, EntityName: "Cloud"},
		engine.ParseMetadata("start_3_Cloud"))
	require.Equal(t, engine.Metadata{IsLastInEntity: true, CharacterID: 3, EntityName: "Cloud"},
		engine.ParseMetadata("end_3_Cloud"))
	require.Equal(t, engine.Metadata{IsLastInEntity: false, CharacterID: 3, EntityName: "Cloud"},
		engine.ParseMetadata("3_Cloud"))
}

func TestParseMetadataNoCharacterID(t *testing.T) {
	md := engine.ParseMetadata("-1_GenericNPC")
	require.Equal(t, -1, md.CharacterID)
	require.Equal(t, "GenericNPC", md.EntityName)
}

func TestParseMetadataEntityNameWithUnderscore(t *testing.T) {
	md := engine.ParseMetadata("start_7_Shinra_Guard")
	require.True(t, md.IsFirstInEntity)
	require.Equal(t, 7, md.CharacterID)
	require.Equal(t, "Shinra_Guard", md.EntityName)
}
