// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

const schemaURL = "metadata.json"

// metadataSchema describes the per-certificate JSON document. Unknown field
// values are null, never invented.
const metadataSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": [
    "tomador", "marca", "tipo", "anio_fabricacion", "patente",
    "vigencia_desde", "vigencia_hasta", "vigencia_desde_iso", "vigencia_hasta_iso",
    "poliza_numero", "poliza_numero_sin_guiones", "motor", "chasis",
    "archivo_pdf", "paginas", "rango_paginas_1based"
  ],
  "properties": {
    "tomador": {"type": ["string", "null"]},
    "marca": {"type": ["string", "null"]},
    "tipo": {"type": ["string", "null"]},
    "anio_fabricacion": {"type": ["string", "null"], "pattern": "^[0-9]{4}$"},
    "patente": {"type": "string", "minLength": 1},
    "vigencia_desde": {"type": ["string", "null"]},
    "vigencia_hasta": {"type": ["string", "null"]},
    "vigencia_desde_iso": {"type": ["string", "null"], "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
    "vigencia_hasta_iso": {"type": ["string", "null"], "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
    "poliza_numero": {"type": ["string", "null"]},
    "poliza_numero_sin_guiones": {"type": ["string", "null"], "pattern": "^[^\\s-]*$"},
    "motor": {"type": ["string", "null"]},
    "chasis": {"type": ["string", "null"]},
    "archivo_pdf": {"type": "string", "minLength": 1},
    "paginas": {"type": "string"},
    "rango_paginas_1based": {"type": "string", "pattern": "^[0-9]+-[0-9]+$"}
  },
  "if": {"properties": {"poliza_numero": {"type": "null"}}},
  "then": {"properties": {"poliza_numero_sin_guiones": {"type": "null"}}},
  "else": {"properties": {"poliza_numero_sin_guiones": {"type": "string"}}}
}`
