// Package schema holds the fixed shipment-document field template embedded in
// every extraction prompt. The template is pure data: placeholder type hints
// are replaced by the model with literal values or null.
package schema

// Template is the shipment-document schema shared by all extraction prompts.
// Do not edit field names or order; downstream consumers rely on the exact
// structure.
const Template = `
{
  "shipment_document": {
    "document_type": "string (e.g., 'CMR', 'Delivery Note')",
    "document_number": "string (e.g., CMR: #237029-237215, Delivery Note: No. 1006)",
    "date_of_issue": "string (YYYY-MM-DD, e.g., 2025-09-02)",

    "consignor_sender": {
      "name": "string",
      "address": "string",
      "city_region": "string (optional)",
      "postcode": "string (optional)",
      "country": "string",
      "contact_info": {
        "telephone": "string (optional)",
        "email": "string (optional)"
      }
    },

    "consignee_recipient": {
      "name": "string",
      "address": "string",
      "city_region": "string (optional)",
      "postcode": "string (optional)",
      "country": "string",
      "place_of_delivery": "string (optional, e.g., Goldthorpe South Yorkshire)"
    },

    "carrier": {
      "name": "string (optional)",
      "address": "string (optional)",
      "city_region": "string (optional)",
      "postcode": "string (optional)",
      "country": "string (optional)"
    },

    "delivery_information": {
      "place_of_taking_over_goods": "string",
      "date_of_taking_over_goods": "string (YYYY-MM-DD)",
      "expected_delivery_date": "string (YYYY-MM-DD, optional)",
      "order_number": "string (optional, e.g., PO number: 6503996754, Order Number: 5201019)",
      "customer_reference": "string (optional, e.g., REF: RVS-064, #2050829-1259)"
    },

    "goods_description": {
      "items": [
        {
          "quantity": "number or string (if unit is embedded, e.g., '1,00 Europallet')",
          "unit": "string (e.g., 'stuks', 'crates', 'pallets', 'Europallet - R')",
          "size": "string (optional, e.g., 'x EPS')",
          "mark_or_product_identifier": "string (optional, e.g., '246.03 CRATES', '31S096-')",
          "description": "string (e.g., 'Eggplants 15 stuks', 'BOX BANANA SHALLOTS 14 + 300GR')",
          "product_code": "string (optional, e.g., 'PLU EPS-136', 'R7121226857')",
          "origin_country_code": "string (optional, e.g., 'UK NL', 'NL HA')",
          "gross_weight_kg": "number (optional)",
          "statistical_number": "string (optional)",
          "product_dimensions_or_count_per_unit": "string (optional, e.g., '(24 x 180)', '(28 x 180)')"
        }
      ],
      "total_gross_weight_kg": "number (optional)",
      "total_pallets_stated": "number (optional, e.g., 30.84, 52, 130)",
      "total_crates_stated": "string (optional, e.g., 'VGS CRATES', 'TOTAL GKN PALLETS', 'TOTAL 4 WAY WHITE PALLETS')"
    },

    "transport_details": {
      "trailer_wagon_number": "string (optional, e.g., Ribnummer: 3815803)",
      "vehicle_registration_number": "string (optional, e.g., A1211ZA, SP24235)",
      "pallets_delivered_count": "number (optional, specific to some CMR sections, e.g., 130)"
    },

    "payment_instructions": {
      "terms": "string (optional, e.g., 'DDP', 'Franco/Frei')",
      "location": "string (optional, e.g., Goldthorpe South Yorkshire, Kruiningen)",
      "date": "string (YYYY-MM-DD, optional)"
    },

    "remarks_observations": {
      "general_remarks": "string (optional, e.g., 'Shortages and damages mentioned on the CMR are reported to the supplier by the receiver within 12 hours.')",
      "special_agreements_or_notes": {
        "reference": "string (optional, e.g., 'Lidl GB - Exeter ROC')",
        "status_changed": "string (optional, e.g., 'Reg')",
        "currency": "string (optional, e.g., 'EURO')",
        "document_type_code": "string (optional, e.g., 'DD')",
        "agreement_date": "string (YYYY-MM-DD, optional, e.g., '2025-09-01')",
        "bol_number": "string (optional, e.g., '1927096')",
        "quality_and_quantity_correct_by": "string (optional, e.g., 'DRIVER')",
        "damaged_status": "boolean (optional)",
        "goods_received_under_discrepancy": "boolean (optional)"
      }
    },

    "reception_confirmation": {
      "date_received": "string (YYYY-MM-DD, optional)",
      "temperature_celsius": "number (optional)",
      "total_cases_accepted": "number (optional)",
      "pallets_in": "number (optional)",
      "pallets_out": "number (optional)",
      "over_short_rejected_status": "string (optional, e.g., '-1 CASE')",
      "scanned_status": "string (YES/NO, optional)",
      "received_by_signature_name": "string (optional, e.g., 'Witczak')",
      "received_by_print_name": "string (optional, e.g., 'WITCZAK')",
      "receiving_signature_present": "boolean (optional)"
    },

    "issuing_party_details": {
      "issued_by_name": "string (optional)",
      "issued_by_address": "string (optional)",
      "issued_by_city_region": "string (optional)",
      "issued_by_country": "string (optional)"
    }
  }
}
`
